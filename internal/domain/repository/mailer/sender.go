package mailer

import (
	"context"

	"blogd/internal/domain/model"
)

type Sender interface {
	Send(ctx context.Context, email model.Email) error
}
