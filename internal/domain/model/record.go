package model

// Record is an element of a persisted collection.
type Record interface {
	RecordID() string
}

const (
	AuthorCollection   = "authors"
	BlogPostCollection = "blogPosts"
)
