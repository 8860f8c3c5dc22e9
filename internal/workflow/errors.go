package workflow

import (
	"errors"
	"fmt"
)

// ErrBarrierClosed is returned by barrier operations after the barrier has
// reached its terminal state. Workers racing a cancelled run see this; it is
// expected and not a protocol violation.
var ErrBarrierClosed = errors.New("barrier is closed")

// ConfigurationError indicates an invalid worker registry. It is fatal and
// surfaced before any run starts: no events are emitted and no worker is
// invoked.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid workflow configuration: %s", e.Reason)
}

// GenerationError indicates that one worker's external generation call
// failed, timed out, or returned an empty response. It is non-fatal to the
// run: the coordinator records it as a failure outcome and proceeds.
type GenerationError struct {
	WorkerID string
	Reason   string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("worker %s: generation failed (%s): %v", e.WorkerID, e.Reason, e.Err)
	}
	return fmt.Sprintf("worker %s: generation failed (%s)", e.WorkerID, e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ProtocolError indicates a violated coordination invariant, such as a
// duplicate outcome report or a report from an unregistered worker. It is
// never expected in correct operation and points at a coordination bug.
type ProtocolError struct {
	WorkerID string
	Reason   string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("workflow protocol violation: worker %s: %s", e.WorkerID, e.Reason)
}

// AggregationError indicates that the final synthesis step failed. It is
// fatal to the run and surfaced to the caller as the terminal failure event.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed: %v", e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }
