package domain

import "errors"

var (
	ErrNotFound         = errors.New("fulfillment_not_found")
	ErrInvalidDemand    = errors.New("invalid_demand_reference")
	ErrDemandMismatch   = errors.New("demand_type_mismatch")
	ErrInvalidSubmitter = errors.New("invalid_submitter")
	ErrInvalidItem      = errors.New("invalid_donation_item")
	ErrInvalidQuantity  = errors.New("invalid_donation_quantity")
)
