package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/birbparty/go-confluence/sdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetrics installs an OTLP meter provider when metrics are enabled and
// an endpoint is configured. Prometheus collectors are registered
// separately by NewMetricsObserver.
func InitMetrics(ctx context.Context, cfg *Config) error {
	if !cfg.EnableMetrics || cfg.OTLPEndpoint == "" {
		return nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return err
	}

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	interval := time.Duration(cfg.MetricsInterval) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	))
	return nil
}

// CloseMetrics flushes and shuts down the meter provider
func CloseMetrics(ctx context.Context) error {
	if mp, ok := otel.GetMeterProvider().(*sdkmetric.MeterProvider); ok {
		return mp.Shutdown(ctx)
	}
	return nil
}

// MetricsObserver is an sdk.Observer that records Confluence client
// metrics in Prometheus collectors and OpenTelemetry instruments.
type MetricsObserver struct {
	requestsInFlight  *prometheus.GaugeVec
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	requestErrors     *prometheus.CounterVec
	retriesTotal      *prometheus.CounterVec
	circuitState      *prometheus.GaugeVec
	circuitTransition *prometheus.CounterVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter

	otelRequests metric.Int64Counter
	otelDuration metric.Float64Histogram
	otelRetries  metric.Int64Counter
}

var _ sdk.Observer = (*MetricsObserver)(nil)

// NewMetricsObserver registers the client collectors with reg and creates
// the OpenTelemetry instruments from the global meter provider.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	factory := promauto.With(reg)
	o := &MetricsObserver{
		requestsInFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "confluence_requests_in_flight",
			Help: "Number of Confluence requests in flight",
		}, []string{"method", "route"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confluence_requests_total",
			Help: "Total number of Confluence requests by final status",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "confluence_request_duration_seconds",
			Help:    "Duration of Confluence requests including retries",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confluence_request_errors_total",
			Help: "Total number of failed Confluence requests",
		}, []string{"method", "route"}),
		retriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confluence_retries_total",
			Help: "Total number of Confluence request retries",
		}, []string{"method", "route"}),
		circuitState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "confluence_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		}, []string{"endpoint"}),
		circuitTransition: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "confluence_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state changes",
		}, []string{"endpoint", "to"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "confluence_cache_hits_total",
			Help: "Total number of response cache hits",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "confluence_cache_misses_total",
			Help: "Total number of response cache misses",
		}),
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if o.otelRequests, err = meter.Int64Counter("confluence.client.requests",
		metric.WithDescription("Confluence requests by final status")); err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}
	if o.otelDuration, err = meter.Float64Histogram("confluence.client.duration",
		metric.WithDescription("Duration of Confluence requests"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	if o.otelRetries, err = meter.Int64Counter("confluence.client.retries",
		metric.WithDescription("Confluence request retries")); err != nil {
		return nil, fmt.Errorf("failed to create retry counter: %w", err)
	}
	return o, nil
}

// OnRequestStart implements sdk.Observer
func (o *MetricsObserver) OnRequestStart(method, route string) {
	o.requestsInFlight.WithLabelValues(method, route).Inc()
}

// OnRequestEnd implements sdk.Observer
func (o *MetricsObserver) OnRequestEnd(method, route string, status int, duration time.Duration, err error) {
	o.requestsInFlight.WithLabelValues(method, route).Dec()

	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	o.requestsTotal.WithLabelValues(method, route, statusLabel).Inc()
	o.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if err != nil {
		o.requestErrors.WithLabelValues(method, route).Inc()
	}

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("confluence.route", route),
		attribute.String("http.status_code", statusLabel),
	)
	ctx := context.Background()
	o.otelRequests.Add(ctx, 1, attrs)
	o.otelDuration.Record(ctx, duration.Seconds(), attrs)
}

// OnRetryAttempt implements sdk.Observer
func (o *MetricsObserver) OnRetryAttempt(method, route string, attempt int, delay time.Duration, err error) {
	o.retriesTotal.WithLabelValues(method, route).Inc()
	o.otelRetries.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("confluence.route", route),
	))
}

// OnCircuitBreakerStateChange implements sdk.Observer
func (o *MetricsObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState sdk.CircuitState) {
	o.circuitState.WithLabelValues(endpoint).Set(float64(newState))
	o.circuitTransition.WithLabelValues(endpoint, newState.String()).Inc()
}

// OnCacheHit implements sdk.Observer
func (o *MetricsObserver) OnCacheHit(key string) {
	o.cacheHits.Inc()
}

// OnCacheMiss implements sdk.Observer
func (o *MetricsObserver) OnCacheMiss(key string) {
	o.cacheMisses.Inc()
}

// MetricsFileSample is one sample of a metrics file export.
type MetricsFileSample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// WriteMetricsFile gathers every counter and gauge of gatherer, and the
// sample count of every histogram, into a JSON document at path.
func WriteMetricsFile(path string, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var samples []MetricsFileSample
	for _, family := range families {
		for _, m := range family.GetMetric() {
			sample := MetricsFileSample{Name: family.GetName()}
			if len(m.GetLabel()) > 0 {
				sample.Labels = make(map[string]string, len(m.GetLabel()))
				for _, label := range m.GetLabel() {
					sample.Labels[label.GetName()] = label.GetValue()
				}
			}
			switch {
			case m.Counter != nil:
				sample.Value = m.GetCounter().GetValue()
			case m.Gauge != nil:
				sample.Value = m.GetGauge().GetValue()
			case m.Histogram != nil:
				sample.Name += "_count"
				sample.Value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			samples = append(samples, sample)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"timestamp": time.Now().Unix(),
		"metrics":   samples,
	})
}
