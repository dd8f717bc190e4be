package model

import "time"

type BlogPost struct {
	ID        string    `json:"_id"      bson:"_id"`
	Author    AuthorRef `json:"author"   bson:"author"`
	Category  string    `json:"category" bson:"category"`
	Title     string    `json:"title"    bson:"title"`
	Content   string    `json:"content"  bson:"content"`
	Cover     string    `json:"cover,omitempty" bson:"cover,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

func (p BlogPost) RecordID() string {
	return p.ID
}

// AuthorRef is the author embedded in a post. It is not checked against the
// author collection.
type AuthorRef struct {
	ID     string `json:"_id,omitempty"    bson:"_id,omitempty"`
	Name   string `json:"name"             bson:"name"`
	Email  string `json:"email,omitempty"  bson:"email,omitempty"`
	Avatar string `json:"avatar,omitempty" bson:"avatar,omitempty"`
}
