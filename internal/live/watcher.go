package live

import (
	"context"
	"sync"

	"github.com/bwmarrin/snowflake"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	"github.com/jimmyhealer/shovel-hero/internal/store"
)

// watcherEvent is one emission from a per-demand fulfillment watcher into
// the orchestrator loop.
type watcherEvent struct {
	demandID  snowflake.ID
	kind      demanddomain.DemandType
	count     int
	donations []fulfillmentdomain.Donation
	err       error
}

// watcher follows the fulfillments of one visible demand. It is created
// when the demand enters the live set and torn down by identity when it
// leaves. Teardown is idempotent.
type watcher struct {
	demandID snowflake.ID
	kind     demanddomain.DemandType
	sub      *store.Subscription
	cancel   context.CancelFunc
	done     chan struct{}
	once     sync.Once
}

func (o *Orchestrator) startWatcher(ctx context.Context, demandID snowflake.ID, kind demanddomain.DemandType) (*watcher, error) {
	collection := store.CollectionVolunteerApplications
	if kind == demanddomain.TypeSupply {
		collection = store.CollectionDonations
	}
	sub, err := o.notifier.Subscribe(store.Topic{Collection: collection, Key: demandID.String()})
	if err != nil {
		return nil, &SubscriptionError{Err: err}
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &watcher{
		demandID: demandID,
		kind:     kind,
		sub:      sub,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run(wctx, o)
	return w, nil
}

func (w *watcher) run(ctx context.Context, o *Orchestrator) {
	defer close(w.done)

	w.load(ctx, o)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.sub.C():
			w.load(ctx, o)
		}
	}
}

// load queries the current visible fulfillment state and hands it to the
// orchestrator loop. The send never blocks past cancellation, so a stopped
// orchestrator cannot strand a watcher.
func (w *watcher) load(ctx context.Context, o *Orchestrator) {
	ev := watcherEvent{demandID: w.demandID, kind: w.kind}
	now := o.clock.Now()

	switch w.kind {
	case demanddomain.TypeHuman:
		count, err := o.applications.CountVisible(ctx, w.demandID, now)
		if err != nil {
			ev.err = &AggregationError{DemandID: w.demandID, Err: err}
		} else {
			ev.count = int(count)
		}
	case demanddomain.TypeSupply:
		donations, err := o.donations.ListVisibleByDemand(ctx, w.demandID, now)
		if err != nil {
			ev.err = &AggregationError{DemandID: w.demandID, Err: err}
		} else {
			ev.donations = donations
		}
	}

	select {
	case o.events <- ev:
	case <-ctx.Done():
	}
}

// teardown releases the watcher's subscription and stops its goroutine.
// Callable more than once; cleanup paths may hit it twice.
func (w *watcher) teardown() {
	w.once.Do(func() {
		w.cancel()
		w.sub.Close()
	})
}
