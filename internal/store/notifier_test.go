package store

import "testing"

func TestBroadcastReachesCollectionSubscriber(t *testing.T) {
	n := NewNotifier()
	sub, err := n.Subscribe(Topic{Collection: CollectionDemands})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	n.Broadcast(CollectionDemands, "123")
	select {
	case <-sub.C():
	default:
		t.Fatal("expected a pending signal")
	}
}

func TestBroadcastFiltersByKey(t *testing.T) {
	n := NewNotifier()
	sub, err := n.Subscribe(Topic{Collection: CollectionDonations, Key: "42"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	n.Broadcast(CollectionDonations, "99")
	select {
	case <-sub.C():
		t.Fatal("signal delivered for a different key")
	default:
	}

	n.Broadcast(CollectionDonations, "42")
	select {
	case <-sub.C():
	default:
		t.Fatal("expected a signal for the subscribed key")
	}
}

func TestBroadcastCoalesces(t *testing.T) {
	n := NewNotifier()
	sub, err := n.Subscribe(Topic{Collection: CollectionDemands})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	n.Broadcast(CollectionDemands, "1")
	n.Broadcast(CollectionDemands, "2")
	n.Broadcast(CollectionDemands, "3")

	<-sub.C()
	select {
	case <-sub.C():
		t.Fatal("signals should coalesce into one")
	default:
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	n := NewNotifier()
	sub, err := n.Subscribe(Topic{Collection: CollectionDemands})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sub.Close()
	sub.Close()
	if got := n.SubscriberCount(); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}

	// Broadcasting after close must not panic or signal.
	n.Broadcast(CollectionDemands, "1")
	select {
	case <-sub.C():
		t.Fatal("closed subscription received a signal")
	default:
	}
}

func TestNotifierCloseRejectsNewSubscriptions(t *testing.T) {
	n := NewNotifier()
	n.Close()
	if _, err := n.Subscribe(Topic{Collection: CollectionDemands}); err != ErrNotifierClosed {
		t.Fatalf("expected ErrNotifierClosed, got %v", err)
	}
}
