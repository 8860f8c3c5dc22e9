package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestFileExporter_WritesJSONLRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	start := time.Now().Add(-50 * time.Millisecond)
	stub := tracetest.SpanStub{
		Name:      SpanWorker,
		StartTime: start,
		EndTime:   start.Add(40 * time.Millisecond),
		Attributes: []attribute.KeyValue{
			attribute.String(AttrWorkerID, "market"),
			attribute.Int(AttrWorkerPosition, 1),
		},
	}

	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	content, err := os.ReadFile(path) //nolint:gosec // G304: test-controlled path
	require.NoError(t, err)

	var record SpanRecord
	require.NoError(t, json.Unmarshal(content, &record))
	require.Equal(t, SpanWorker, record.Name)
	require.Equal(t, "market", record.Attributes[AttrWorkerID])
	require.InDelta(t, 40.0, record.DurationMs, 1.0)
	require.Equal(t, "unset", record.Status)
}

func TestFileExporter_EmptyBatchIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	require.NoError(t, exporter.ExportSpans(context.Background(), nil))
	require.NoError(t, exporter.Shutdown(context.Background()))

	content, err := os.ReadFile(path) //nolint:gosec // G304: test-controlled path
	require.NoError(t, err)
	require.Empty(t, content)
}

func TestFileExporter_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "spans.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestFileExporter_ShutdownIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spans.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()))
}
