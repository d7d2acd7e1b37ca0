package domain

import "errors"

var (
	ErrNotFound           = errors.New("demand_not_found")
	ErrInvalidType        = errors.New("invalid_demand_type")
	ErrInvalidRegion      = errors.New("invalid_region")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidContact     = errors.New("invalid_contact")
	ErrInvalidHumanNeed   = errors.New("invalid_human_need")
	ErrInvalidSupplyItems = errors.New("invalid_supply_items")
)
