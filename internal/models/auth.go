package models

import (
	"time"
)

// Identity providers an account can come from
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User is a login account. The profile document is keyed by ID.
type User struct {
	ID           string    `json:"id" db:"id" bson:"_id"`
	Email        string    `json:"email" db:"email" bson:"email"`
	PasswordHash string    `json:"-" db:"password_hash" bson:"passwordHash"`
	DisplayName  string    `json:"display_name" db:"display_name" bson:"displayName"`
	PhotoURL     string    `json:"photo_url" db:"photo_url" bson:"photoUrl"`
	Provider     string    `json:"provider" db:"provider" bson:"provider"`
	CreatedAt    time.Time `json:"created_at" db:"created_at" bson:"createdAt"`
}
