package commands

import (
	"os"

	"blogd/pkg/logger"
)

func ExitOnError(err error) {
	logger.Error("blogd error", "err", err.Error())
	os.Exit(1)
}
