package workflow

import "time"

// EventKind identifies the kind of run event.
type EventKind string

const (
	// EventWorkerStarted is emitted just before a worker's generation call
	// begins, so progress is observable before any completion.
	EventWorkerStarted EventKind = "worker.started"
	// EventWorkerCompleted is emitted when a worker's generation call
	// succeeds. Text carries the analysis.
	EventWorkerCompleted EventKind = "worker.completed"
	// EventWorkerFailed is emitted when a worker's generation call fails.
	// Err carries the GenerationError; the run continues.
	EventWorkerFailed EventKind = "worker.failed"
	// EventAggregated is the terminal event of a successful run. Text
	// carries the synthesized result.
	EventAggregated EventKind = "run.aggregated"
	// EventCancelled is the terminal event of a cancelled run. Partial
	// results already recorded are discarded, never partially aggregated.
	EventCancelled EventKind = "run.cancelled"
	// EventFailed is the terminal event of a run whose aggregation step
	// failed. Err carries the AggregationError.
	EventFailed EventKind = "run.failed"
)

// Event is a single entry in a run's event stream.
type Event struct {
	// Kind identifies the event.
	Kind EventKind
	// RunID identifies the workflow run the event belongs to.
	RunID string
	// WorkerID identifies the worker for worker.* events.
	WorkerID string
	// Text carries the generated analysis or the aggregated result.
	Text string
	// Err carries the failure for worker.failed and run.failed events.
	Err error
	// Time is when the event was emitted.
	Time time.Time
}

// Terminal reports whether the event ends the run's stream. Exactly one
// terminal event is emitted per run, always last.
func (e Event) Terminal() bool {
	switch e.Kind {
	case EventAggregated, EventCancelled, EventFailed:
		return true
	default:
		return false
	}
}

func newEvent(kind EventKind, runID string) Event {
	return Event{Kind: kind, RunID: runID, Time: time.Now()}
}
