// Package domain contains persistence models for queued notifications.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusQueued = "queued"
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Templates rendered by the delivery side.
const (
	TemplateApplicationReceived = "volunteer_application_received"
	TemplateDonationReceived    = "donation_received"
	TemplateDemandApproved      = "demand_approved"
)

// Notification is a queued outbound message to a demand contact.
type Notification struct {
	ID       snowflake.ID      `gorm:"primaryKey" json:"id"`
	ToEmail  string            `gorm:"type:text;not null" json:"to_email"`
	Template string            `gorm:"type:text;not null" json:"template"`
	Payload  datatypes.JSONMap `gorm:"type:jsonb" json:"payload"`
	Status   string            `gorm:"type:text;not null;default:queued;index" json:"status"`
	Error    *string           `gorm:"type:text" json:"-"`
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
	SentAt    *time.Time       `gorm:"" json:"sent_at,omitempty"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }
