// Package domain contains the admin account model used for moderation
// sign-in.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound           = errors.New("admin_not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// AdminUser can approve and reject demands and remove comments. Passwords
// are stored as encoded argon2id strings.
type AdminUser struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"type:text;not null;uniqueIndex" json:"email"`
	DisplayName  string       `gorm:"type:text" json:"displayName"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	CreatedAt    time.Time    `gorm:"not null" json:"createdAt"`
	LastLoginAt  *time.Time   `gorm:"" json:"lastLoginAt,omitempty"`
}

// TableName sets the database table name.
func (AdminUser) TableName() string { return "admin_users" }
