package live

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// ErrStopped is returned by Start after the orchestrator has been torn down;
// a stopped orchestrator is not restartable.
var ErrStopped = errors.New("orchestrator_stopped")

// SubscriptionError is a set-level failure: the base demand subscription or
// its query failed. It is surfaced once per failure through the snapshot's
// error field; the orchestrator keeps running.
type SubscriptionError struct {
	Err error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("demand subscription failed: %v", e.Err)
}

func (e *SubscriptionError) Unwrap() error { return e.Err }

// AggregationError is a per-demand failure: one watcher's count or ledger
// refresh failed. It is logged and isolated; the demand keeps its last
// consistent derived fields and other demands are unaffected.
type AggregationError struct {
	DemandID snowflake.ID
	Err      error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation for demand %s failed: %v", e.DemandID, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// TeardownError records a watcher cleanup that panicked. Logged only; it
// never prevents teardown of the remaining watchers.
type TeardownError struct {
	DemandID snowflake.ID
	Reason   any
}

func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown for demand %s panicked: %v", e.DemandID, e.Reason)
}
