package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/model"
	"blogd/internal/domain/repository/broker"
	"blogd/internal/domain/repository/mailer"
	"blogd/pkg/logger"
)

const defaultSubject = "The blog Post you created"

var postCreatedTemplate = template.Must(template.New("post_created").Parse(
	`<p>Hello <strong>{{.AuthorName}}!</strong></p>` +
		`<p>Here is your <strong>Blog Post!</strong></p>` +
		`<p><em>{{.Title}}</em></p>` +
		`<p>Best Regards.</p>`))

// newNotification builds the first delivery attempt for post.
func newNotification(post model.BlogPost, defaultRecipient string) model.Notification {
	recipient := post.Author.Email
	if recipient == "" {
		recipient = defaultRecipient
	}

	return model.Notification{
		PostID:     post.ID,
		Title:      post.Title,
		AuthorName: post.Author.Name,
		Recipient:  recipient,
		Attempt:    1,
	}
}

func composeEmail(n model.Notification, subject string) (model.Email, error) {
	if subject == "" {
		subject = defaultSubject
	}

	var body bytes.Buffer
	if err := postCreatedTemplate.Execute(&body, n); err != nil {
		return model.Email{}, apperr.Notification(err, "render email for %s", n.PostID)
	}

	return model.Email{
		To:      n.Recipient,
		Subject: subject,
		HTML:    body.String(),
	}, nil
}

func failed(err error) model.DeliveryReceipt {
	return model.DeliveryReceipt{Status: model.DeliveryFailed, Error: err.Error()}
}

// DirectNotifier sends the email while the request waits.
type DirectNotifier struct {
	sender mailer.Sender
	cfg    NotifierConfig
}

func NewDirectNotifier(sender mailer.Sender, cfg NotifierConfig) *DirectNotifier {
	return &DirectNotifier{
		sender: sender,
		cfg:    cfg,
	}
}

func (d *DirectNotifier) Dispatch(ctx context.Context, post model.BlogPost) model.DeliveryReceipt {
	n := newNotification(post, d.cfg.DefaultRecipient)
	if n.Recipient == "" {
		return model.DeliveryReceipt{Status: model.DeliverySkipped}
	}

	email, err := composeEmail(n, d.cfg.Subject)
	if err != nil {
		return failed(err)
	}

	if err := d.sender.Send(ctx, email); err != nil {
		logger.Warn("notification not delivered", "post", post.ID, "err", err)

		return failed(err)
	}

	return model.DeliveryReceipt{Status: model.DeliverySent}
}

// QueuedNotifier hands the notification to the outbox stream; a
// NotificationWorker sends it later.
type QueuedNotifier struct {
	publisher broker.Publisher
	cfg       NotifierConfig
}

func NewQueuedNotifier(publisher broker.Publisher, cfg NotifierConfig) *QueuedNotifier {
	return &QueuedNotifier{
		publisher: publisher,
		cfg:       cfg,
	}
}

func (q *QueuedNotifier) Dispatch(ctx context.Context, post model.BlogPost) model.DeliveryReceipt {
	n := newNotification(post, q.cfg.DefaultRecipient)
	if n.Recipient == "" {
		return model.DeliveryReceipt{Status: model.DeliverySkipped}
	}

	if err := publishNotification(ctx, q.publisher, n); err != nil {
		logger.Error("failed to queue notification", "post", post.ID, "err", err)

		return failed(err)
	}

	return model.DeliveryReceipt{Status: model.DeliveryQueued}
}

func publishNotification(ctx context.Context, publisher broker.Publisher, n model.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return apperr.Notification(err, "encode notification for %s", n.PostID)
	}

	if err := publisher.Publish(ctx, string(body)); err != nil {
		return apperr.Notification(err, "queue notification for %s", n.PostID)
	}

	return nil
}
