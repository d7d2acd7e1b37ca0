// Package publish holds the moderation gate: publish-time assignment at
// creation and the visibility predicate the public read path applies.
//
// The publish time is the only gate. There is no approval flag on the read
// path; an admin approving early rewrites the publish time into the past.
package publish

import "time"

// Kind identifies the entity class for publish-time assignment.
type Kind string

const (
	KindDemand               Kind = "demand"
	KindVolunteerApplication Kind = "volunteer_application"
	KindDonation             Kind = "donation"
)

// DefaultDemandDelay is the pending-review window before a demand surfaces
// without explicit approval.
const DefaultDemandDelay = 30 * time.Minute

// Policy assigns publish times at creation. Volunteer applications and
// donations are public immediately; demands wait out the review delay.
type Policy struct {
	DemandDelay time.Duration
}

// NewPolicy builds a policy with the given demand delay, falling back to the
// default when the delay is not positive.
func NewPolicy(demandDelay time.Duration) Policy {
	if demandDelay <= 0 {
		demandDelay = DefaultDemandDelay
	}
	return Policy{DemandDelay: demandDelay}
}

// PublishTime computes the publish time stamped on a new entity.
func (p Policy) PublishTime(kind Kind, createdAt time.Time) time.Time {
	switch kind {
	case KindDemand:
		return createdAt.Add(p.DemandDelay)
	default:
		return createdAt
	}
}

// Visible reports whether an entity with the given publish time is part of
// the public view at now. Monotonic: once true it stays true for any later
// now.
func Visible(publishTime, now time.Time) bool {
	return !publishTime.After(now)
}
