package model

import "time"

type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryQueued  DeliveryStatus = "queued"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

// DeliveryReceipt is the outcome of handing a notification to its transport.
type DeliveryReceipt struct {
	Status DeliveryStatus `json:"status"`
	Error  string         `json:"error,omitempty"`
}

// Notification is a queued "post created" message.
type Notification struct {
	PostID     string `json:"post_id"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	Recipient  string `json:"recipient"`
	Attempt    int    `json:"attempt"`

	// NotBefore holds a retry back until the given time.
	NotBefore time.Time `json:"not_before,omitzero"`
}

type Email struct {
	To      string
	Subject string
	HTML    string
}
