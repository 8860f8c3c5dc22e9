package tracing

// Span attribute keys for workflow tracing. These constants define the
// semantic conventions for span attributes across the run.
const (
	// Run attributes
	AttrRunID = "run.id"
	AttrQuery = "run.query"

	// Worker attributes
	AttrWorkerID       = "worker.id"
	AttrWorkerPosition = "worker.position"

	// Aggregation attributes
	AttrResultCount  = "aggregate.results"
	AttrFailureCount = "aggregate.failures"

	// Generation attributes
	AttrProvider = "gen.provider"
)

// Span names used by the workflow coordinator.
const (
	SpanRun       = "workflow.run"
	SpanWorker    = "worker.invoke"
	SpanAggregate = "workflow.aggregate"
)
