// Package telemetry wires logging, tracing and metrics for the Confluence
// command line tool.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry holds the collectors created by Init.
type Telemetry struct {
	cfg      *Config
	Registry *prometheus.Registry
	Observer *MetricsObserver
}

// Init configures the global logger, tracer provider and meter provider and
// creates a metrics observer for the Confluence client. Logs go to logOut.
func Init(ctx context.Context, cfg *Config, logOut io.Writer) (*Telemetry, error) {
	if err := InitLogger(cfg, logOut); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := InitTracing(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := InitMetrics(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	registry := prometheus.NewRegistry()
	observer, err := NewMetricsObserver(registry)
	if err != nil {
		return nil, err
	}

	WithFields(map[string]interface{}{
		"tracing": cfg.EnableTracing,
		"metrics": cfg.EnableMetrics,
	}).Debug("Telemetry initialized")

	return &Telemetry{cfg: cfg, Registry: registry, Observer: observer}, nil
}

// Shutdown writes the metrics file when file export is enabled, then
// flushes and closes every provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.cfg.ExportToFile && t.cfg.EnableMetrics && t.cfg.MetricsFilePath != "" {
		if err := WriteMetricsFile(t.cfg.MetricsFilePath, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics file: %w", err))
		}
	}
	if err := CloseMetrics(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	if err := CloseTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	if err := CloseLogger(); err != nil {
		errs = append(errs, fmt.Errorf("logger: %w", err))
	}
	return errors.Join(errs...)
}
