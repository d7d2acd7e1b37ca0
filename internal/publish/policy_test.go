package publish

import (
	"testing"
	"time"
)

func TestPublishTimeDelaysDemands(t *testing.T) {
	p := NewPolicy(30 * time.Minute)
	createdAt := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	got := p.PublishTime(KindDemand, createdAt)
	if want := createdAt.Add(30 * time.Minute); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPublishTimeInstantForFulfillments(t *testing.T) {
	p := NewPolicy(30 * time.Minute)
	createdAt := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	for _, kind := range []Kind{KindVolunteerApplication, KindDonation} {
		if got := p.PublishTime(kind, createdAt); !got.Equal(createdAt) {
			t.Fatalf("kind %s: expected %v, got %v", kind, createdAt, got)
		}
	}
}

func TestNewPolicyDefaultsDelay(t *testing.T) {
	p := NewPolicy(0)
	if p.DemandDelay != DefaultDemandDelay {
		t.Fatalf("expected default delay, got %v", p.DemandDelay)
	}
}

func TestVisibleIsMonotonic(t *testing.T) {
	createdAt := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	publishTime := createdAt.Add(30 * time.Minute)

	if Visible(publishTime, createdAt) {
		t.Fatal("entity should not be visible at creation when delayed")
	}
	if Visible(publishTime, createdAt.Add(29*time.Minute)) {
		t.Fatal("entity should not be visible before the publish time")
	}
	if !Visible(publishTime, publishTime) {
		t.Fatal("entity should be visible exactly at the publish time")
	}
	for _, later := range []time.Duration{time.Nanosecond, time.Minute, 24 * time.Hour} {
		if !Visible(publishTime, publishTime.Add(later)) {
			t.Fatalf("visibility regressed at publishTime+%v", later)
		}
	}
}
