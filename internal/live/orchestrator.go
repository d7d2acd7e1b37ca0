// Package live maintains the public view of the demand map: a continuously
// updated list of visible demands annotated with live fulfillment state.
//
// One orchestrator instance serves one consumer (one SSE connection, one
// dashboard). All list state is owned by a single event-loop goroutine;
// store change signals, refresh ticks and watcher emissions are serialized
// through it, so a demand's derived fields are never patched concurrently.
package live

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jimmyhealer/shovel-hero/internal/aggregate"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	"github.com/jimmyhealer/shovel-hero/internal/observability/metrics"
	"github.com/jimmyhealer/shovel-hero/internal/store"
	"go.uber.org/zap"
)

// Filter narrows the live set by equality on type and/or region.
type Filter struct {
	Type   demanddomain.DemandType
	Region string
}

// Snapshot is the published view handed to the consumer. Slices are shared
// read-only views; consumers must not mutate them.
type Snapshot struct {
	Demands []demanddomain.Demand
	Err     error
}

// State is the orchestrator lifecycle state.
type State int32

const (
	StateIdle State = iota
	StateSyncing
	StateLive
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSyncing:
		return "syncing"
	case StateLive:
		return "live"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Options wires an orchestrator without fx, for tests and embedding.
type Options struct {
	Log             *zap.Logger
	Clock           clock.Clock
	Notifier        *store.Notifier
	Demands         demanddomain.Repository
	Applications    fulfillmentdomain.ApplicationRepository
	Donations       fulfillmentdomain.DonationRepository
	RefreshInterval time.Duration
	Metrics         *metrics.LiveFeedMetrics
	OnSnapshot      func(Snapshot)
}

type Orchestrator struct {
	log          *zap.Logger
	clock        clock.Clock
	notifier     *store.Notifier
	demands      demanddomain.Repository
	applications fulfillmentdomain.ApplicationRepository
	donations    fulfillmentdomain.DonationRepository
	refresh      time.Duration
	metrics      *metrics.LiveFeedMetrics
	onSnapshot   func(Snapshot)

	mu     sync.Mutex
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}

	watcherCount atomic.Int32

	// Loop-owned; never touched outside the run goroutine.
	filter   Filter
	current  []demanddomain.Demand
	index    map[snowflake.ID]int
	watchers map[snowflake.ID]*watcher
	events   chan watcherEvent
}

func NewOrchestrator(opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	refresh := opts.RefreshInterval
	if refresh <= 0 {
		refresh = 30 * time.Second
	}
	return &Orchestrator{
		log:          log.Named("live.orchestrator"),
		clock:        opts.Clock,
		notifier:     opts.Notifier,
		demands:      opts.Demands,
		applications: opts.Applications,
		donations:    opts.Donations,
		refresh:      refresh,
		metrics:      opts.Metrics,
		onSnapshot:   opts.OnSnapshot,
	}
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// WatcherCount reports the number of live per-demand watchers.
func (o *Orchestrator) WatcherCount() int {
	return int(o.watcherCount.Load())
}

// Start establishes the base demand subscription and begins publishing
// snapshots. Calling Start while running is a no-op; a stopped orchestrator
// cannot be restarted.
func (o *Orchestrator) Start(filter Filter) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.State() {
	case StateSyncing, StateLive:
		return nil
	case StateStopped:
		return ErrStopped
	}

	sub, err := o.notifier.Subscribe(store.Topic{Collection: store.CollectionDemands})
	if err != nil {
		return &SubscriptionError{Err: err}
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})
	o.filter = filter
	o.index = make(map[snowflake.ID]int)
	o.watchers = make(map[snowflake.ID]*watcher)
	o.events = make(chan watcherEvent, 64)
	o.state.Store(int32(StateSyncing))

	go o.run(ctx, sub)
	return nil
}

// Stop tears down the base subscription and every watcher. It blocks until
// the event loop has exited, so no snapshot callback fires after it
// returns. Safe to call at any point, more than once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	prev := o.State()
	o.state.Store(int32(StateStopped))
	cancel, done := o.cancel, o.done
	o.mu.Unlock()

	if prev == StateIdle || prev == StateStopped || cancel == nil {
		return
	}
	cancel()
	<-done
}

func (o *Orchestrator) run(ctx context.Context, sub *store.Subscription) {
	defer close(o.done)
	defer o.teardownWatchers()
	defer sub.Close()

	ticker := time.NewTicker(o.refresh)
	defer ticker.Stop()

	o.refreshSet(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.C():
			o.refreshSet(ctx)
		case <-ticker.C:
			// Visibility can flip true with no store write; the tick
			// re-evaluates the predicate against the current clock.
			o.refreshSet(ctx)
		case ev := <-o.events:
			o.apply(ev)
		}
	}
}

// refreshSet re-runs the base query, diffs demand identities against the
// previous set, and reconciles watchers: removed identities are torn down,
// added ones get a fresh watcher, retained ones are left untouched.
func (o *Orchestrator) refreshSet(ctx context.Context) {
	now := o.clock.Now()
	rows, err := o.demands.ListPublished(ctx, demanddomain.PublishedFilter{
		Type:   o.filter.Type,
		Region: o.filter.Region,
	}, now)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		o.log.Warn("live demand set refresh failed", zap.Error(err))
		o.metrics.RefreshFailed()
		o.teardownWatchers()
		o.current = nil
		o.index = make(map[snowflake.ID]int)
		o.state.CompareAndSwap(int32(StateSyncing), int32(StateLive))
		o.emit(Snapshot{Err: &SubscriptionError{Err: err}})
		return
	}

	next := rows
	nextIndex := make(map[snowflake.ID]int, len(next))
	for i := range next {
		nextIndex[next[i].ID] = i
		// Retained demands keep their last derived fields until the
		// watcher emits again.
		if j, ok := o.index[next[i].ID]; ok {
			prev := o.current[j]
			next[i].AppliedCount = prev.AppliedCount
			next[i].DonationCount = prev.DonationCount
			next[i].RemainingSupplyItems = prev.RemainingSupplyItems
		}
	}

	for id, w := range o.watchers {
		if _, ok := nextIndex[id]; ok {
			continue
		}
		o.teardownWatcher(id, w)
		delete(o.watchers, id)
	}
	for i := range next {
		d := &next[i]
		if !d.Type.Aggregable() {
			continue
		}
		if _, ok := o.watchers[d.ID]; ok {
			continue
		}
		w, err := o.startWatcher(ctx, d.ID, d.Type)
		if err != nil {
			o.log.Warn("watcher start failed",
				zap.String("demand_id", d.ID.String()),
				zap.Error(err),
			)
			continue
		}
		o.watchers[d.ID] = w
		o.watcherCount.Add(1)
		o.metrics.WatcherStarted(string(d.Type))
	}

	o.current = next
	o.index = nextIndex
	o.state.CompareAndSwap(int32(StateSyncing), int32(StateLive))
	o.emit(Snapshot{Demands: o.publishedDemands()})
}

// apply patches one demand's derived fields from a watcher emission.
// Events for demands that already left the set are discarded.
func (o *Orchestrator) apply(ev watcherEvent) {
	if _, ok := o.watchers[ev.demandID]; !ok {
		return
	}
	i, ok := o.index[ev.demandID]
	if !ok {
		return
	}
	if ev.err != nil {
		// Per-demand failure: the demand keeps its last consistent
		// derived fields, other demands are unaffected.
		o.log.Warn("fulfillment watcher refresh failed", zap.Error(ev.err))
		return
	}

	d := &o.current[i]
	switch ev.kind {
	case demanddomain.TypeHuman:
		if d.AppliedCount != nil && *d.AppliedCount == ev.count {
			return
		}
		count := ev.count
		d.AppliedCount = &count
	case demanddomain.TypeSupply:
		count := len(ev.donations)
		remaining := aggregate.RemainingSupplyItems(d.SupplyItems, ev.donations)
		if d.DonationCount != nil && *d.DonationCount == count &&
			reflect.DeepEqual(d.RemainingSupplyItems, remaining) {
			return
		}
		d.DonationCount = &count
		d.RemainingSupplyItems = remaining
	default:
		return
	}

	o.metrics.PatchApplied(string(ev.kind))
	o.emit(Snapshot{Demands: o.publishedDemands()})
}

func (o *Orchestrator) teardownWatcher(id snowflake.ID, w *watcher) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("watcher teardown failed", zap.Error(&TeardownError{DemandID: id, Reason: r}))
		}
	}()
	w.teardown()
	o.watcherCount.Add(-1)
	o.metrics.WatcherStopped(string(w.kind))
}

func (o *Orchestrator) teardownWatchers() {
	for id, w := range o.watchers {
		o.teardownWatcher(id, w)
	}
	o.watchers = make(map[snowflake.ID]*watcher)
}

// publishedDemands returns a value copy of the current list. Embedded
// slices are shared and treated as immutable by consumers.
func (o *Orchestrator) publishedDemands() []demanddomain.Demand {
	out := make([]demanddomain.Demand, len(o.current))
	copy(out, o.current)
	return out
}

func (o *Orchestrator) emit(snapshot Snapshot) {
	if o.onSnapshot == nil {
		return
	}
	if o.State() == StateStopped {
		return
	}
	o.onSnapshot(snapshot)
	o.metrics.SnapshotPublished()
}
