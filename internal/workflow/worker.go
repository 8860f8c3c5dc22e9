package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quorumlabs/council/internal/gen"
	"github.com/quorumlabs/council/internal/log"
)

// Worker wraps one opaque generation call with a fixed role identity and
// instruction set. A worker is stateless per invocation and never retries:
// retry policy, if any, belongs to the generation provider's client.
type Worker struct {
	spec    WorkerSpec
	gen     gen.Generator
	timeout time.Duration
}

// NewWorker creates a worker for the given spec. A positive timeout bounds
// each invocation; on expiry the worker reports a timeout failure instead of
// hanging the barrier forever.
func NewWorker(spec WorkerSpec, g gen.Generator, timeout time.Duration) *Worker {
	return &Worker{spec: spec, gen: g, timeout: timeout}
}

// ID returns the worker's registered identity.
func (w *Worker) ID() string { return w.spec.ID }

// Spec returns the worker's immutable spec.
func (w *Worker) Spec() WorkerSpec { return w.spec }

// invoke performs the worker's single generation call. Any failure mode of
// the external call (error, timeout, empty response) comes back as a
// *GenerationError.
func (w *Worker) invoke(ctx context.Context, prompt string) (string, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := w.gen.Generate(ctx, w.spec.Instructions, prompt)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn(log.CatWorkflow, "Worker timed out", "workerID", w.spec.ID, "after", elapsed)
		return "", &GenerationError{WorkerID: w.spec.ID, Reason: "timeout", Err: err}
	case err != nil:
		log.ErrorErr(log.CatWorkflow, "Worker generation failed", err, "workerID", w.spec.ID)
		return "", &GenerationError{WorkerID: w.spec.ID, Reason: "provider error", Err: err}
	case strings.TrimSpace(text) == "":
		log.Warn(log.CatWorkflow, "Worker returned empty response", "workerID", w.spec.ID)
		return "", &GenerationError{WorkerID: w.spec.ID, Reason: "empty response"}
	}

	log.Debug(log.CatWorkflow, "Worker completed", "workerID", w.spec.ID, "elapsed", elapsed)
	return text, nil
}
