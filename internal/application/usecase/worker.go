package usecase

import (
	"context"
	"encoding/json"
	"time"

	"blogd/internal/domain/model"
	"blogd/internal/domain/repository/broker"
	"blogd/internal/domain/repository/mailer"
	"blogd/pkg/logger"
)

const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
	maxBackoffShift    = 10
)

// NotificationWorker drains the notification outbox. A failed send is
// republished with the next attempt number and a growing NotBefore until
// MaxAttempts is reached.
type NotificationWorker struct {
	receiver   broker.Receiver
	publisher  broker.Publisher
	sender     mailer.Sender
	cfg        NotifierConfig
	retryDelay time.Duration
}

func NewNotificationWorker(receiver broker.Receiver, publisher broker.Publisher, sender mailer.Sender,
	cfg NotifierConfig,
) *NotificationWorker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}

	retryDelay := time.Duration(cfg.RetryDelay) * time.Millisecond
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	return &NotificationWorker{
		receiver:   receiver,
		publisher:  publisher,
		sender:     sender,
		cfg:        cfg,
		retryDelay: retryDelay,
	}
}

// Run consumes messages until ctx is done.
func (w *NotificationWorker) Run(ctx context.Context) error {
	messages, err := w.receiver.Messages(ctx, w.cfg.Consumer)
	if err != nil {
		return err
	}

	logger.Info("notification worker started", "consumer", w.cfg.Consumer)

	for msg := range messages {
		w.handle(ctx, msg)
	}

	logger.Info("notification worker stopped", "consumer", w.cfg.Consumer)

	return nil
}

func (w *NotificationWorker) handle(ctx context.Context, msg broker.Message) {
	var n model.Notification
	if err := json.Unmarshal([]byte(msg.Body()), &n); err != nil {
		logger.Error("dropping malformed notification", "id", msg.ID(), "err", err)
		w.ack(ctx, msg)

		return
	}

	if !waitUntil(ctx, n.NotBefore) {
		// left pending, the receiver reclaims it once idle
		return
	}

	err := w.send(ctx, n)
	if err == nil {
		logger.Info("notification sent", "post", n.PostID, "attempt", n.Attempt)
		w.ack(ctx, msg)

		return
	}

	if n.Attempt >= w.cfg.MaxAttempts {
		logger.Error("giving up on notification", "post", n.PostID, "attempt", n.Attempt, "err", err)
		w.ack(ctx, msg)

		return
	}

	n.NotBefore = time.Now().Add(w.backoff(n.Attempt))
	n.Attempt++
	if pubErr := publishNotification(ctx, w.publisher, n); pubErr != nil {
		// left pending, the receiver reclaims it once idle
		logger.Error("failed to requeue notification", "post", n.PostID, "err", pubErr)

		return
	}

	logger.Warn("notification requeued", "post", n.PostID, "attempt", n.Attempt,
		"not_before", n.NotBefore, "err", err)
	w.ack(ctx, msg)
}

func (w *NotificationWorker) send(ctx context.Context, n model.Notification) error {
	email, err := composeEmail(n, w.cfg.Subject)
	if err != nil {
		return err
	}

	return w.sender.Send(ctx, email)
}

func (w *NotificationWorker) ack(ctx context.Context, msg broker.Message) {
	if err := msg.Ack(ctx); err != nil {
		logger.Error("failed to ack notification", "id", msg.ID(), "err", err)
	}
}

// backoff is the delay after the given failed attempt.
func (w *NotificationWorker) backoff(attempt int) time.Duration {
	shift := min(max(attempt-1, 0), maxBackoffShift)

	return w.retryDelay << shift
}

// waitUntil reports false if ctx is done before t.
func waitUntil(ctx context.Context, t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
