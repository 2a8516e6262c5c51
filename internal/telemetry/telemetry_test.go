package telemetry

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestInitAndShutdown_FileExport(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.ExportToFile = true
	cfg.EnableTracing = true
	cfg.EnableMetrics = true
	cfg.MetricsFilePath = filepath.Join(dir, "metrics.json")
	cfg.TracesFilePath = filepath.Join(dir, "traces.json")
	cfg.LogsFilePath = filepath.Join(dir, "logs.json")
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	var logs bytes.Buffer
	tel, err := Init(context.Background(), cfg, &logs)
	require.NoError(t, err)
	require.NotNil(t, tel.Observer)

	_, span := StartSpan(context.Background(), "sysinfo")
	tel.Observer.OnRequestStart("GET", "settings/systemInfo")
	tel.Observer.OnRequestEnd("GET", "settings/systemInfo", 200, 5*time.Millisecond, nil)
	EndSpan(span, nil)

	require.NoError(t, tel.Shutdown(context.Background()))

	for _, path := range []string{cfg.MetricsFilePath, cfg.TracesFilePath, cfg.LogsFilePath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.NotZero(t, info.Size(), path)
	}
	assert.Contains(t, logs.String(), "Telemetry initialized")
}

func TestInitAndShutdown_Disabled(t *testing.T) {
	cfg := testConfig()

	tel, err := Init(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NoError(t, tel.Shutdown(context.Background()))
}
