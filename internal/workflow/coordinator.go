package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/quorumlabs/council/internal/gen"
	"github.com/quorumlabs/council/internal/log"
	"github.com/quorumlabs/council/internal/tracing"
)

// WorkerPromptFunc frames the query into the prompt handed to one analyst
// worker. The default hands the query through unchanged.
type WorkerPromptFunc func(spec WorkerSpec, query string) string

// AggregatePromptFunc builds the synthesis prompt handed to the aggregator
// from the barrier's released input. The default concatenates the successful
// analyses in registration order and notes the failures.
type AggregatePromptFunc func(in AggregateInput) string

// Config holds configuration for creating a Coordinator.
type Config struct {
	// Workers is the fixed analyst registry for every run. Required,
	// non-empty, ids unique.
	Workers []WorkerSpec

	// Aggregator is the final synthesis worker. Required.
	Aggregator WorkerSpec

	// Generator is the injected generation collaborator shared by all
	// workers. Required.
	Generator gen.Generator

	// WorkerTimeout bounds each worker invocation. Zero disables the
	// per-worker deadline, leaving a stuck external call able to block
	// the barrier indefinitely.
	WorkerTimeout time.Duration

	// StreamBuffer is the event stream buffer size. Defaults to
	// DefaultStreamBuffer. Producers block once it fills.
	StreamBuffer int

	// Tracer records run and worker spans. Optional; nil means no-op.
	Tracer trace.Tracer

	// WorkerPrompt frames per-worker prompts. Optional.
	WorkerPrompt WorkerPromptFunc

	// AggregatePrompt builds the synthesis prompt. Optional.
	AggregatePrompt AggregatePromptFunc
}

// Coordinator owns the worker registry and wires dispatcher, workers,
// barrier, and aggregator together. It is safe to create once and call Run
// repeatedly; every call starts a fresh, independent workflow run.
type Coordinator struct {
	specs           []WorkerSpec
	workers         []*Worker
	aggregator      *Worker
	provider        string
	buffer          int
	tracer          trace.Tracer
	workerPrompt    WorkerPromptFunc
	aggregatePrompt AggregatePromptFunc
}

// New creates a Coordinator, failing closed with *ConfigurationError when
// the registry is empty or contains duplicate ids, before any run can start.
func New(cfg Config) (*Coordinator, error) {
	if err := validateSpecs(cfg.Workers); err != nil {
		return nil, err
	}
	if cfg.Generator == nil {
		return nil, &ConfigurationError{Reason: "generator is required"}
	}
	if cfg.Aggregator.ID == "" {
		return nil, &ConfigurationError{Reason: "aggregator spec is required"}
	}

	// Registration order is position order; ties keep input order.
	specs := make([]WorkerSpec, len(cfg.Workers))
	copy(specs, cfg.Workers)
	sort.SliceStable(specs, func(i, j int) bool { return specs[i].Position < specs[j].Position })

	workers := make([]*Worker, 0, len(specs))
	for _, spec := range specs {
		workers = append(workers, NewWorker(spec, cfg.Generator, cfg.WorkerTimeout))
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("council")
	}
	workerPrompt := cfg.WorkerPrompt
	if workerPrompt == nil {
		workerPrompt = func(_ WorkerSpec, query string) string { return query }
	}
	aggregatePrompt := cfg.AggregatePrompt
	if aggregatePrompt == nil {
		aggregatePrompt = defaultAggregatePrompt
	}

	return &Coordinator{
		specs:           specs,
		workers:         workers,
		aggregator:      NewWorker(cfg.Aggregator, cfg.Generator, cfg.WorkerTimeout),
		provider:        string(cfg.Generator.Provider()),
		buffer:          cfg.StreamBuffer,
		tracer:          tracer,
		workerPrompt:    workerPrompt,
		aggregatePrompt: aggregatePrompt,
	}, nil
}

// Workers returns the registry in registration order.
func (c *Coordinator) Workers() []WorkerSpec {
	out := make([]WorkerSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Run starts a fresh workflow run for the query and returns its event
// stream. The stream is finite, consumed once, and not restartable: it ends
// with exactly one terminal event (aggregated, cancelled, or failed) and is
// then closed. Cancelling ctx abandons in-flight workers, discards partial
// results, and ends the stream with a cancelled terminal event.
func (c *Coordinator) Run(ctx context.Context, query string) <-chan Event {
	runID := uuid.NewString()
	st := newStream(c.buffer)
	b := newBarrier(c.specs)

	log.Info(log.CatWorkflow, "Run starting", "runID", runID, "workers", len(c.specs))
	go c.execute(ctx, runID, query, st, b)

	return st.events()
}

func (c *Coordinator) execute(ctx context.Context, runID, query string, st *stream, b *barrier) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanRun, trace.WithAttributes(
		attribute.String(tracing.AttrRunID, runID),
		attribute.String(tracing.AttrQuery, query),
		attribute.String(tracing.AttrProvider, c.provider),
	))
	defer span.End()

	prompt := func(spec WorkerSpec) string { return c.workerPrompt(spec, query) }

	var wg sync.WaitGroup
	dispatch(ctx, runID, prompt, c.workers, st, b, &wg)

	select {
	case <-b.Released():
	case <-ctx.Done():
		b.Close()
		// Workers return promptly once ctx is cancelled; wait for their
		// publishes to cease before sealing the stream.
		wg.Wait()
		log.Info(log.CatWorkflow, "Run cancelled", "runID", runID)
		st.terminal(newEvent(EventCancelled, runID))
		return
	}

	// All workers have recorded; the aggregator runs exactly once, strictly
	// after the last outcome.
	input := AggregateInput{Query: query, Results: b.Results()}
	log.Info(log.CatWorkflow, "Barrier released", "runID", runID,
		"results", len(input.Results), "failures", input.Failures())

	text, err := c.invokeAggregator(ctx, input)
	b.Close()

	wg.Wait()
	switch {
	case err != nil && ctx.Err() != nil:
		st.terminal(newEvent(EventCancelled, runID))
	case err != nil:
		log.ErrorErr(log.CatWorkflow, "Aggregation failed", err, "runID", runID)
		e := newEvent(EventFailed, runID)
		e.Err = &AggregationError{Err: err}
		st.terminal(e)
	default:
		e := newEvent(EventAggregated, runID)
		e.Text = text
		st.terminal(e)
	}
}

func (c *Coordinator) invokeAggregator(ctx context.Context, input AggregateInput) (string, error) {
	ctx, span := c.tracer.Start(ctx, tracing.SpanAggregate, trace.WithAttributes(
		attribute.Int(tracing.AttrResultCount, len(input.Results)),
		attribute.Int(tracing.AttrFailureCount, input.Failures()),
	))
	defer span.End()

	text, err := c.aggregator.invoke(ctx, c.aggregatePrompt(input))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return text, err
}

// defaultAggregatePrompt joins the released results in registration order,
// marking failed analyses so the aggregator can weigh the gaps.
func defaultAggregatePrompt(in AggregateInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Synthesize the following analyses for: %s\n", in.Query)
	for _, r := range in.Results {
		fmt.Fprintf(&sb, "\n=== %s ===\n", strings.ToUpper(r.WorkerID))
		if r.Outcome.Success() {
			sb.WriteString(r.Outcome.Text)
			sb.WriteString("\n")
		} else {
			fmt.Fprintf(&sb, "(analysis unavailable: %v)\n", r.Outcome.Err)
		}
	}
	return sb.String()
}
