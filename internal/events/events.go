package events

// Relief event types recorded to the outbox for downstream consumers
// (notification dispatch, audit rollups).
const (
	EventDemandCreated       = "demand_created"
	EventDemandApproved      = "demand_approved"
	EventDemandRejected      = "demand_rejected"
	EventDemandDeleted       = "demand_deleted"
	EventApplicationReceived = "volunteer_application_received"
	EventDonationReceived    = "donation_received"
	EventCommentRemoved      = "comment_removed"
)

// DemandPayload captures the minimal data needed to react to demand events.
type DemandPayload struct {
	DemandID   string `json:"demand_id"`
	DemandType string `json:"demand_type"`
	Region     string `json:"region"`
	Actor      string `json:"actor,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p DemandPayload) ToMap() map[string]any {
	payload := map[string]any{
		"demand_id":   p.DemandID,
		"demand_type": p.DemandType,
		"region":      p.Region,
	}
	if p.Actor != "" {
		payload["actor"] = p.Actor
	}
	if p.Reason != "" {
		payload["reason"] = p.Reason
	}
	return payload
}

// FulfillmentPayload captures the minimal data needed to react to a new
// volunteer application or donation.
type FulfillmentPayload struct {
	FulfillmentID string  `json:"fulfillment_id"`
	DemandID      string  `json:"demand_id"`
	ItemName      string  `json:"item_name,omitempty"`
	Quantity      float64 `json:"quantity,omitempty"`
	Unit          string  `json:"unit,omitempty"`
}

// ToMap converts a payload into an outbox-friendly map.
func (p FulfillmentPayload) ToMap() map[string]any {
	payload := map[string]any{
		"fulfillment_id": p.FulfillmentID,
		"demand_id":      p.DemandID,
	}
	if p.ItemName != "" {
		payload["item_name"] = p.ItemName
		payload["quantity"] = p.Quantity
		payload["unit"] = p.Unit
	}
	return payload
}
