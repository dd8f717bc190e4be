package model

import "time"

type Author struct {
	ID        string    `json:"_id"       bson:"_id"`
	Name      string    `json:"name"      bson:"name"`
	Surname   string    `json:"surname"   bson:"surname"`
	Email     string    `json:"email"     bson:"email"`
	BirthDate string    `json:"birthDate" bson:"birth_date"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

func (a Author) RecordID() string {
	return a.ID
}
