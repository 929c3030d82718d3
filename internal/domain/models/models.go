package models

import (
	"time"
)

type Movie struct {
	ID          int       `json:"id"`           // Unique integer ID for the movie
	Title       string    `json:"title"`        // Movie title
	PublishYear int32     `json:"publish_year"` // Year the movie was published
	ImageURL    string    `json:"image_url"`    // Public URL or storage key of the poster image
	CreatedBy   int64     `json:"-"`            // ID of the owning user
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AnonymousUser marks a request that carried no (valid) bearer token.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}
