// Package domain contains the persistence model for demand comments.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Comment is a public note attached to a demand. Comments are visible the
// moment they are written; moderation is a soft removal that keeps the row
// for the audit trail.
type Comment struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	DemandID snowflake.ID `gorm:"not null;index" json:"demandId"`

	AuthorName string `gorm:"type:text;not null" json:"authorName"`
	Content    string `gorm:"type:text;not null" json:"content"`

	Removed   bool       `gorm:"not null;default:false;index" json:"removed"`
	RemovedAt *time.Time `gorm:"" json:"removedAt,omitempty"`
	RemovedBy string     `gorm:"type:text" json:"removedBy,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName sets the database table name.
func (Comment) TableName() string { return "comments" }
