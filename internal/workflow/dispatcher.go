package workflow

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quorumlabs/council/internal/log"
	"github.com/quorumlabs/council/internal/tracing"
)

// validateSpecs checks the worker registry the dispatcher is about to fan
// out to. Violations fail closed with *ConfigurationError before any
// invocation starts.
func validateSpecs(specs []WorkerSpec) error {
	if len(specs) == 0 {
		return &ConfigurationError{Reason: "no workers registered"}
	}
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		if spec.ID == "" {
			return &ConfigurationError{Reason: "worker with empty id"}
		}
		if _, dup := seen[spec.ID]; dup {
			return &ConfigurationError{Reason: "duplicate worker id: " + spec.ID}
		}
		seen[spec.ID] = struct{}{}
	}
	return nil
}

// dispatch fans the query out to every worker concurrently. Each worker gets
// its own goroutine that emits a started event before invoking, records its
// outcome with the barrier, and emits the matching completion or failure
// event before recording so per-worker event order is causal.
func dispatch(ctx context.Context, runID string, prompt func(WorkerSpec) string, workers []*Worker, st *stream, b *barrier, wg *sync.WaitGroup) {
	for _, w := range workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()

			started := newEvent(EventWorkerStarted, runID)
			started.WorkerID = w.ID()
			st.publish(ctx, started)

			tracer := trace.SpanFromContext(ctx).TracerProvider().Tracer("council")
			wctx, span := tracer.Start(ctx, tracing.SpanWorker, trace.WithAttributes(
				attribute.String(tracing.AttrWorkerID, w.ID()),
				attribute.Int(tracing.AttrWorkerPosition, w.Spec().Position),
			))
			text, err := w.invoke(wctx, prompt(w.Spec()))
			if err != nil {
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()

			var e Event
			var outcome Outcome
			if err != nil {
				e = newEvent(EventWorkerFailed, runID)
				e.WorkerID = w.ID()
				e.Err = err
				outcome = Outcome{Err: err}
			} else {
				e = newEvent(EventWorkerCompleted, runID)
				e.WorkerID = w.ID()
				e.Text = text
				outcome = Outcome{Text: text}
			}
			// Publish before recording: the completion event must be in the
			// stream before the barrier can release and the aggregated event
			// can follow it.
			st.publish(ctx, e)

			if recErr := b.Record(w.ID(), outcome); recErr != nil {
				if errors.Is(recErr, ErrBarrierClosed) {
					log.Debug(log.CatWorkflow, "Outcome discarded, barrier closed", "runID", runID, "workerID", w.ID())
					return
				}
				// Unreachable with a correct dispatcher; a real occurrence
				// means a coordination bug.
				log.ErrorErr(log.CatWorkflow, "Barrier rejected outcome", recErr, "runID", runID, "workerID", w.ID())
			}
		}(w)
	}
}
