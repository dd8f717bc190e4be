package commands

import "fmt"

const usage = `blogd: authors and blog posts REST service

Usage:
  %[1]s run <config.yml>   start the HTTP server
  %[1]s version            print the version
  %[1]s help               show this message
`

func HandleHelp(args []string) {
	name := "blogd"
	if len(args) > 0 {
		name = args[0]
	}

	fmt.Printf(usage, name) //nolint
}
