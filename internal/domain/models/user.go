package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

// CanEdit reports whether the role may mutate catalog content.
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleManager
}

type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	HashedPassword []byte    `db:"hashed_password" json:"-"`
	DisplayName    *string   `db:"display_name" json:"display_name,omitempty"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	Role           Role      `db:"role" json:"role"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}
