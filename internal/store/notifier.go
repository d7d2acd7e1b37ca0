// Package store provides the change-notification hub the live layer
// subscribes to. Write services broadcast after every committed change; a
// subscriber re-runs its query on each signal and always observes the full
// current result set, so delivery is at-least-once and coalescing is safe.
package store

import (
	"errors"
	"sync"
)

// Collection names broadcast by the write paths.
const (
	CollectionDemands               = "demands"
	CollectionVolunteerApplications = "volunteer_applications"
	CollectionDonations             = "donations"
	CollectionComments              = "comments"
)

var ErrNotifierClosed = errors.New("notifier_closed")

// Topic narrows a subscription to one collection, optionally to one key
// within it (the demand identity for fulfillment collections).
type Topic struct {
	Collection string
	// Key filters broadcasts; empty matches every key in the collection.
	Key string
}

// Notifier fans change signals out to subscriptions.
type Notifier struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
	closed bool
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers interest in the given topics. The returned
// subscription owns a coalesced signal channel: a pending signal absorbs
// later ones until consumed.
func (n *Notifier) Subscribe(topics ...Topic) (*Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil, ErrNotifierClosed
	}

	n.nextID++
	sub := &Subscription{
		notifier: n,
		id:       n.nextID,
		topics:   append([]Topic(nil), topics...),
		ch:       make(chan struct{}, 1),
	}
	n.subs[sub.id] = sub
	return sub, nil
}

// Broadcast signals every subscription matching the collection and key.
func (n *Notifier) Broadcast(collection, key string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	for _, sub := range n.subs {
		if sub.matches(collection, key) {
			select {
			case sub.ch <- struct{}{}:
			default:
			}
		}
	}
}

// Close tears down the hub and every outstanding subscription.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	subs := make([]*Subscription, 0, len(n.subs))
	for _, sub := range n.subs {
		subs = append(subs, sub)
	}
	n.subs = map[uint64]*Subscription{}
	n.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	delete(n.subs, id)
	n.mu.Unlock()
}

// SubscriberCount reports live subscriptions, for leak checks in tests.
func (n *Notifier) SubscriberCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// Subscription is a handle on a stream of change signals.
type Subscription struct {
	notifier *Notifier
	id       uint64
	topics   []Topic
	ch       chan struct{}
	once     sync.Once
}

// C returns the signal channel. It is never closed; callers select on it
// together with their own cancellation.
func (s *Subscription) C() <-chan struct{} {
	return s.ch
}

// Close detaches the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.notifier.remove(s.id)
	})
}

func (s *Subscription) matches(collection, key string) bool {
	for _, t := range s.topics {
		if t.Collection != collection {
			continue
		}
		if t.Key == "" || t.Key == key {
			return true
		}
	}
	return false
}
