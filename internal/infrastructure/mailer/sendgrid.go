package mailer

import (
	"context"
	"net/http"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/model"
	"blogd/pkg/logger"
)

const (
	defaultHost  = "https://api.sendgrid.com"
	sendEndpoint = "/v3/mail/send"
)

type SendGrid struct {
	cfg  *Config
	from *mail.Email
}

func NewSendGrid(cfg *Config) *SendGrid {
	return &SendGrid{
		cfg:  cfg,
		from: mail.NewEmail(cfg.FromName, cfg.FromAddress),
	}
}

func (s *SendGrid) Send(ctx context.Context, email model.Email) error {
	if email.To == "" {
		return apperr.Notification(errors.New("empty recipient"), "send %q", email.Subject)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Timeout)*time.Millisecond)
	defer cancel()

	msg := mail.NewV3MailInit(s.from, email.Subject, mail.NewEmail("", email.To),
		mail.NewContent("text/html", email.HTML))

	host := s.cfg.Host
	if host == "" {
		host = defaultHost
	}

	req := sendgrid.GetRequest(s.cfg.APIKey, sendEndpoint, host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(msg)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		logger.Error("failed to reach sendgrid", "to", email.To, "err", err)

		return apperr.Notification(err, "send to %s", email.To)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		logger.Error("sendgrid rejected message", "to", email.To, "status", resp.StatusCode, "body", resp.Body)

		return apperr.Notification(errors.Errorf("status %d: %s", resp.StatusCode, resp.Body), "send to %s", email.To)
	}

	logger.Debug("email sent", "to", email.To, "subject", email.Subject)

	return nil
}
