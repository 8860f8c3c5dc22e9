package workflow

import "time"

// WorkerSpec describes one registered analyst worker. Identity is immutable
// once registered; the registry is fixed for the lifetime of a run.
type WorkerSpec struct {
	// ID uniquely identifies the worker within a run (e.g. "market").
	ID string
	// Name is the human-readable display name (e.g. "Market Analyst").
	Name string
	// Instructions is the role's system instruction text handed to the
	// generation collaborator on every invocation.
	Instructions string
	// Position fixes the worker's place in aggregation and display order.
	Position int
}

// Outcome is the result of one worker invocation: either a success carrying
// text or a failure carrying an error. Exactly one of Text/Err is set.
type Outcome struct {
	Text string
	Err  error
}

// Success reports whether the outcome carries generated text.
func (o Outcome) Success() bool { return o.Err == nil }

// Result pairs a worker's outcome with its identity and completion time.
// A result is created exactly once per worker per run and is immutable
// after creation.
type Result struct {
	WorkerID    string
	Outcome     Outcome
	CompletedAt time.Time
}

// AggregateInput is the ordered sequence of results released by the barrier,
// in registration order. It is owned exclusively by the aggregator invocation.
type AggregateInput struct {
	Query   string
	Results []Result
}

// Failures returns the number of failure outcomes in the input.
func (in AggregateInput) Failures() int {
	n := 0
	for _, r := range in.Results {
		if !r.Outcome.Success() {
			n++
		}
	}
	return n
}
