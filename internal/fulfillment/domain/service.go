package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// CreateApplicationRequest is the write-path input for a volunteer sign-up.
type CreateApplicationRequest struct {
	DemandID      snowflake.ID
	Applicant     Applicant
	AvailableTime string
	Skills        []string
	Tools         []string
	Note          string
}

// CreateDonationRequest is the write-path input for a supply pledge.
type CreateDonationRequest struct {
	DemandID snowflake.ID
	Donor    Donor
	ItemName string
	Quantity float64
	Unit     string
	ETA      string
	Note     string
}

// Service is the fulfillment write/read API used by the HTTP surface.
type Service interface {
	CreateApplication(ctx context.Context, req CreateApplicationRequest) (*VolunteerApplication, error)
	CreateDonation(ctx context.Context, req CreateDonationRequest) (*Donation, error)

	ListApplicationsByDemand(ctx context.Context, demandID snowflake.ID) ([]VolunteerApplication, error)
	ListDonationsByDemand(ctx context.Context, demandID snowflake.ID) ([]Donation, error)

	// Admin listings; a zero demand id lists everything.
	ListAllApplications(ctx context.Context, demandID snowflake.ID) ([]VolunteerApplication, error)
	ListAllDonations(ctx context.Context, demandID snowflake.ID) ([]Donation, error)
}
