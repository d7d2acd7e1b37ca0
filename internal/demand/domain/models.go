// Package domain contains persistence models for relief demands.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DemandType tags the variant of a demand.
type DemandType string

const (
	TypeHuman       DemandType = "human"
	TypeSupply      DemandType = "supply"
	TypeSiteHolding DemandType = "site-holding"
	TypeSiteParking DemandType = "site-parking"
	TypeSiteStay    DemandType = "site-stay"
	TypeSiteFood    DemandType = "site-food"
)

// Valid reports whether the type tag is one of the known variants.
func (t DemandType) Valid() bool {
	switch t {
	case TypeHuman, TypeSupply, TypeSiteHolding, TypeSiteParking, TypeSiteStay, TypeSiteFood:
		return true
	}
	return false
}

// Aggregable reports whether the public view derives live counts for this
// type. Site listings carry no fulfillments.
func (t DemandType) Aggregable() bool {
	return t == TypeHuman || t == TypeSupply
}

// Location pins a demand on the map.
type Location struct {
	Lat     float64 `gorm:"column:lat" json:"lat"`
	Lng     float64 `gorm:"column:lng" json:"lng"`
	Address string  `gorm:"column:address;type:text" json:"address"`
}

// Contact is the on-site contact for a demand.
type Contact struct {
	Name  string `gorm:"column:name;type:text" json:"name"`
	Phone string `gorm:"column:phone;type:text" json:"phone"`
	Email string `gorm:"column:email;type:text" json:"email,omitempty"`
}

// HumanNeed is the payload of a human demand.
type HumanNeed struct {
	Required  int    `gorm:"column:required" json:"required"`
	RiskNotes string `gorm:"column:risk_notes;type:text" json:"riskNotes"`
}

// SupplyItem is one requested (or remaining) line of a supply demand.
type SupplyItem struct {
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Demand is a posted request for volunteers, supplies, or site usage.
//
// PublishTime is the sole moderation gate: the public view includes the row
// iff publish_time <= now. It is stamped once at creation and only rewritten
// by an explicit admin approval.
type Demand struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Type        DemandType   `gorm:"type:text;not null;index" json:"type"`
	Title       string       `gorm:"type:text" json:"title,omitempty"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Region      string       `gorm:"type:text;not null;index" json:"region"`

	Location Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Contact  Contact  `gorm:"embedded;embeddedPrefix:contact_" json:"contact"`

	// Variant payloads; only one of the two is populated.
	HumanNeed   HumanNeed                       `gorm:"embedded;embeddedPrefix:human_" json:"humanNeed,omitempty"`
	SupplyItems datatypes.JSONSlice[SupplyItem] `gorm:"column:supply_items" json:"supplyItems,omitempty"`

	CreatedBy   string       `gorm:"type:text" json:"createdBy,omitempty"`
	CreatedAt   time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updatedAt"`
	PublishTime time.Time    `gorm:"not null;index" json:"publishTime"`
	ApprovedAt  *time.Time   `gorm:"" json:"approvedAt,omitempty"`
	ApprovedBy  string       `gorm:"type:text" json:"approvedBy,omitempty"`

	// Derived view annotations, attached at read time and never persisted.
	AppliedCount         *int         `gorm:"-" json:"appliedCount,omitempty"`
	DonationCount        *int         `gorm:"-" json:"donationCount,omitempty"`
	RemainingSupplyItems []SupplyItem `gorm:"-" json:"remainingSupplyItems,omitempty"`
}

// TableName sets the database table name.
func (Demand) TableName() string { return "demands" }
