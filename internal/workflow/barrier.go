package workflow

import (
	"sync"
	"time"
)

// BarrierState is the fan-in barrier's lifecycle state.
type BarrierState int

const (
	// BarrierCollecting means the barrier is accepting outcome reports.
	BarrierCollecting BarrierState = iota
	// BarrierReleased means every registered worker has reported and the
	// accumulated results have been handed to the aggregation step.
	BarrierReleased
	// BarrierClosed is terminal: no further recording or release.
	BarrierClosed
)

func (s BarrierState) String() string {
	switch s {
	case BarrierCollecting:
		return "collecting"
	case BarrierReleased:
		return "released"
	case BarrierClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// barrier is the fan-in synchronization point of a run. It accepts exactly
// one outcome per registered worker and releases the instant the recorded
// count equals the registered count, regardless of the success/failure mix:
// a failed worker still counts as reported, so partial failure never blocks
// the run. Even if every worker fails the barrier releases, letting the
// aggregator report insufficient data instead of the run producing nothing.
//
// The outcome map is the run's only shared mutable structure; all access is
// serialized by mu.
type barrier struct {
	mu       sync.Mutex
	state    BarrierState
	order    []string
	expected map[string]struct{}
	results  map[string]Result
	released chan struct{}
}

func newBarrier(specs []WorkerSpec) *barrier {
	b := &barrier{
		order:    make([]string, 0, len(specs)),
		expected: make(map[string]struct{}, len(specs)),
		results:  make(map[string]Result, len(specs)),
		released: make(chan struct{}),
	}
	for _, spec := range specs {
		b.order = append(b.order, spec.ID)
		b.expected[spec.ID] = struct{}{}
	}
	return b
}

// Record stores one worker's outcome. Recording an unregistered ID or the
// same ID twice fails with *ProtocolError and leaves the outcome map
// untouched. Recording after the barrier left the collecting state returns
// ErrBarrierClosed.
func (b *barrier) Record(workerID string, outcome Outcome) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != BarrierCollecting {
		return ErrBarrierClosed
	}
	if _, ok := b.expected[workerID]; !ok {
		return &ProtocolError{WorkerID: workerID, Reason: "outcome recorded for unregistered worker"}
	}
	if _, dup := b.results[workerID]; dup {
		return &ProtocolError{WorkerID: workerID, Reason: "outcome recorded twice"}
	}

	b.results[workerID] = Result{
		WorkerID:    workerID,
		Outcome:     outcome,
		CompletedAt: time.Now(),
	}

	if len(b.results) == len(b.order) {
		b.state = BarrierReleased
		close(b.released)
	}
	return nil
}

// Released returns a channel that is closed when every registered worker
// has reported.
func (b *barrier) Released() <-chan struct{} { return b.released }

// Close transitions the barrier to its terminal state. Closing while still
// collecting discards any recorded partial results without releasing;
// closing after release just seals the barrier once aggregation has run.
// Closing an already closed barrier is a no-op.
func (b *barrier) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BarrierCollecting {
		b.results = nil
	}
	b.state = BarrierClosed
}

// State returns the barrier's current state.
func (b *barrier) State() BarrierState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Results returns the recorded results in registration order. It is only
// meaningful after the barrier has released.
func (b *barrier) Results() []Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Result, 0, len(b.order))
	for _, id := range b.order {
		if r, ok := b.results[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
