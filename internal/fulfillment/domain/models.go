// Package domain contains persistence models for fulfillments: volunteer
// applications against human demands and donations against supply demands.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Applicant is the submitter of a volunteer application.
type Applicant struct {
	Name  string `gorm:"column:name;type:text" json:"name"`
	Phone string `gorm:"column:phone;type:text" json:"phone"`
}

// Donor is the submitter of a donation.
type Donor struct {
	Name  string `gorm:"column:name;type:text" json:"name"`
	Phone string `gorm:"column:phone;type:text" json:"phone"`
}

// VolunteerApplication is a sign-up against a human demand.
//
// PublishTime is stamped at creation; applications are public immediately,
// so it equals CreatedAt.
type VolunteerApplication struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	DemandID snowflake.ID `gorm:"not null;index" json:"demandId"`

	Applicant     Applicant                   `gorm:"embedded;embeddedPrefix:applicant_" json:"applicant"`
	AvailableTime string                      `gorm:"type:text" json:"availableTime"`
	Skills        datatypes.JSONSlice[string] `gorm:"column:skills" json:"skills"`
	Tools         datatypes.JSONSlice[string] `gorm:"column:tools" json:"tools"`
	Note          string                      `gorm:"type:text" json:"note"`

	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	PublishTime time.Time  `gorm:"not null;index" json:"publishTime"`
	ReviewedAt  *time.Time `gorm:"" json:"reviewedAt,omitempty"`
	ReviewedBy  string     `gorm:"type:text" json:"reviewedBy,omitempty"`
}

// TableName sets the database table name.
func (VolunteerApplication) TableName() string { return "volunteer_applications" }

// Donation is a supply pledge against a supply demand.
type Donation struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	DemandID snowflake.ID `gorm:"not null;index" json:"demandId"`

	Donor    Donor   `gorm:"embedded;embeddedPrefix:donor_" json:"donor"`
	ItemName string  `gorm:"type:text;not null" json:"itemName"`
	Quantity float64 `gorm:"not null" json:"quantity"`
	Unit     string  `gorm:"type:text;not null" json:"unit"`
	ETA      string  `gorm:"column:eta;type:text" json:"eta"`
	Note     string  `gorm:"type:text" json:"note"`

	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	PublishTime time.Time  `gorm:"not null;index" json:"publishTime"`
	ReviewedAt  *time.Time `gorm:"" json:"reviewedAt,omitempty"`
	ReviewedBy  string     `gorm:"type:text" json:"reviewedBy,omitempty"`
}

// TableName sets the database table name.
func (Donation) TableName() string { return "donations" }
