package telemetry

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func readSpans(t *testing.T, path string) []FileSpan {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var spans []FileSpan
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var span FileSpan
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &span))
		spans = append(spans, span)
	}
	require.NoError(t, scanner.Err())
	return spans
}

func TestFileTracerExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.json")
	exporter, err := NewFileTracerExporter(path)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracer := tp.Tracer("test")

	ctx, parent := tracer.Start(context.Background(), "confluence search", trace.WithSpanKind(trace.SpanKindInternal))
	_, child := tracer.Start(ctx, "GET search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("confluence.route", "search")))
	child.AddEvent("retry", trace.WithAttributes(attribute.Int("attempt", 2)))
	EndSpan(child, errors.New("server error"))
	EndSpan(parent, nil)

	require.NoError(t, tp.Shutdown(context.Background()))

	spans := readSpans(t, path)
	require.Len(t, spans, 2)

	got := spans[0]
	assert.Equal(t, "GET search", got.Name)
	assert.Equal(t, "client", got.Kind)
	assert.Equal(t, "Error", got.Status)
	assert.Equal(t, "search", got.Attributes["confluence.route"])
	assert.Equal(t, spans[1].SpanID, got.ParentID)
	assert.Equal(t, spans[1].TraceID, got.TraceID)
	require.NotEmpty(t, got.Events)
	assert.Equal(t, "retry", got.Events[0].Name)

	assert.Equal(t, "confluence search", spans[1].Name)
	assert.Equal(t, "Ok", spans[1].Status)
	assert.Empty(t, spans[1].ParentID)
}

func TestInitTracing_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.EnableTracing = false

	require.NoError(t, InitTracing(context.Background(), cfg))
	_, ok := otel.GetTracerProvider().(noop.TracerProvider)
	assert.True(t, ok)
	assert.NoError(t, CloseTracing(context.Background()))
}

func TestInitTracing_WithoutExporter(t *testing.T) {
	cfg := testConfig()
	cfg.EnableTracing = true

	assert.Error(t, InitTracing(context.Background(), cfg))
}

func TestInitTracing_File(t *testing.T) {
	cfg := testConfig()
	cfg.EnableTracing = true
	cfg.ExportToFile = true
	cfg.TracesFilePath = filepath.Join(t.TempDir(), "traces.json")

	require.NoError(t, InitTracing(context.Background(), cfg))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	_, span := StartSpan(context.Background(), "whoami")
	EndSpan(span, nil)
	require.NoError(t, CloseTracing(context.Background()))

	spans := readSpans(t, cfg.TracesFilePath)
	require.Len(t, spans, 1)
	assert.Equal(t, "whoami", spans[0].Name)
}
