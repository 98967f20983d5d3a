// Package models defines server-side data models persisted in the database
// and the canonical shapes they are serialized to.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. PasswordHash is a bcrypt digest, never the plaintext.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Username     string
	PasswordHash string
	Verified     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the public representation of a User. It has no password field.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Verified  bool      `json:"is_verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewUserView(u *User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
