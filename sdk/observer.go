package sdk

import (
	"sync"
	"time"
)

// Observer provides hooks for monitoring SDK operations.
//
// The route passed to the request hooks is the path template of the
// endpoint ("space/{key}", "content/search"), not the concrete URL, so it
// is safe to use as a metric label. Observer methods are called
// synchronously from the request path and should not block.
//
// Example implementation:
//
//	type logObserver struct{ log *logrus.Entry }
//
//	func (o logObserver) OnRequestEnd(method, route string, status int, d time.Duration, err error) {
//	    o.log.WithFields(logrus.Fields{"route": route, "status": status}).Info("confluence request")
//	}
type Observer interface {
	// OnRequestStart is called once per logical request, before the first attempt.
	OnRequestStart(method, route string)

	// OnRequestEnd is called once the request has finished, after all
	// retries. status is 0 when no response was received.
	OnRequestEnd(method, route string, status int, duration time.Duration, err error)

	// OnRetryAttempt is called before each retry. attempt starts at 2.
	OnRetryAttempt(method, route string, attempt int, delay time.Duration, err error)

	// OnCircuitBreakerStateChange is called after a breaker changes state.
	// endpoint is "*" unless per-endpoint breakers are enabled.
	OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState)

	// OnCacheHit is called when a GET response is served from the cache.
	OnCacheHit(key string)

	// OnCacheMiss is called when a cacheable GET response is not cached.
	OnCacheMiss(key string)
}

// NoopObserver does nothing. It is the default observer.
type NoopObserver struct{}

// OnRequestStart does nothing
func (n *NoopObserver) OnRequestStart(method, route string) {}

// OnRequestEnd does nothing
func (n *NoopObserver) OnRequestEnd(method, route string, status int, duration time.Duration, err error) {
}

// OnRetryAttempt does nothing
func (n *NoopObserver) OnRetryAttempt(method, route string, attempt int, delay time.Duration, err error) {
}

// OnCircuitBreakerStateChange does nothing
func (n *NoopObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState) {
}

// OnCacheHit does nothing
func (n *NoopObserver) OnCacheHit(key string) {}

// OnCacheMiss does nothing
func (n *NoopObserver) OnCacheMiss(key string) {}

// MetricsCollector is an in-memory Observer, mostly useful in tests and
// for debugging. Production code should export to Prometheus instead, see
// internal/telemetry.
//
//	metrics := sdk.NewMetricsCollector()
//	client, _ := sdk.NewClient(sdk.DefaultConfig().
//	    WithBaseURL(url).
//	    WithObserver(metrics))
//	...
//	fmt.Println(metrics.Snapshot().Requests["GET space/{key}"])
type MetricsCollector struct {
	mu            sync.RWMutex
	requests      map[string]int64
	latencies     map[string][]time.Duration
	statuses      map[int]int64
	errors        map[string]int64
	retries       map[string]int64
	circuitEvents map[string]int64
	cacheHits     int64
	cacheMisses   int64
}

// MetricsSnapshot is a copy of the collected metrics, keyed by
// "METHOD route".
type MetricsSnapshot struct {
	Requests            map[string]int64
	Latencies           map[string][]time.Duration
	Statuses            map[int]int64
	Errors              map[string]int64
	Retries             map[string]int64
	CircuitStateChanges map[string]int64
	CacheHits           int64
	CacheMisses         int64
}

// CacheHitRate returns hits / (hits + misses), or 0 without lookups.
func (s MetricsSnapshot) CacheHitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// NewMetricsCollector creates an empty, concurrency safe collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		requests:      make(map[string]int64),
		latencies:     make(map[string][]time.Duration),
		statuses:      make(map[int]int64),
		errors:        make(map[string]int64),
		retries:       make(map[string]int64),
		circuitEvents: make(map[string]int64),
	}
}

// OnRequestStart increments the request count
func (m *MetricsCollector) OnRequestStart(method, route string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[method+" "+route]++
}

// OnRequestEnd records latency, status and errors
func (m *MetricsCollector) OnRequestEnd(method, route string, status int, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := method + " " + route
	m.latencies[key] = append(m.latencies[key], duration)
	if status > 0 {
		m.statuses[status]++
	}
	if err != nil {
		m.errors[key]++
	}
}

// OnRetryAttempt increments the retry count
func (m *MetricsCollector) OnRetryAttempt(method, route string, attempt int, delay time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries[method+" "+route]++
}

// OnCircuitBreakerStateChange counts transitions per endpoint
func (m *MetricsCollector) OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitEvents[endpoint]++
}

// OnCacheHit increments the hit count
func (m *MetricsCollector) OnCacheHit(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHits++
}

// OnCacheMiss increments the miss count
func (m *MetricsCollector) OnCacheMiss(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMisses++
}

// Snapshot returns a copy of the current metrics.
func (m *MetricsCollector) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latencies := make(map[string][]time.Duration, len(m.latencies))
	for k, v := range m.latencies {
		latencies[k] = append([]time.Duration(nil), v...)
	}
	statuses := make(map[int]int64, len(m.statuses))
	for k, v := range m.statuses {
		statuses[k] = v
	}

	return MetricsSnapshot{
		Requests:            copyCounts(m.requests),
		Latencies:           latencies,
		Statuses:            statuses,
		Errors:              copyCounts(m.errors),
		Retries:             copyCounts(m.retries),
		CircuitStateChanges: copyCounts(m.circuitEvents),
		CacheHits:           m.cacheHits,
		CacheMisses:         m.cacheMisses,
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// CompositeObserver fans every hook out to several observers in order. A
// panicking observer does not prevent the others from being called.
//
//	observer := sdk.NewCompositeObserver(
//	    telemetry.NewMetricsObserver(prometheus.DefaultRegisterer),
//	    sdk.NewMetricsCollector(),
//	)
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an observer that delegates to observers.
func NewCompositeObserver(observers ...Observer) Observer {
	return &CompositeObserver{observers: observers}
}

func (c *CompositeObserver) each(fn func(Observer)) {
	for _, obs := range c.observers {
		func() {
			defer func() { _ = recover() }()
			fn(obs)
		}()
	}
}

// OnRequestStart notifies all observers
func (c *CompositeObserver) OnRequestStart(method, route string) {
	c.each(func(o Observer) { o.OnRequestStart(method, route) })
}

// OnRequestEnd notifies all observers
func (c *CompositeObserver) OnRequestEnd(method, route string, status int, duration time.Duration, err error) {
	c.each(func(o Observer) { o.OnRequestEnd(method, route, status, duration, err) })
}

// OnRetryAttempt notifies all observers
func (c *CompositeObserver) OnRetryAttempt(method, route string, attempt int, delay time.Duration, err error) {
	c.each(func(o Observer) { o.OnRetryAttempt(method, route, attempt, delay, err) })
}

// OnCircuitBreakerStateChange notifies all observers
func (c *CompositeObserver) OnCircuitBreakerStateChange(endpoint string, oldState, newState CircuitState) {
	c.each(func(o Observer) { o.OnCircuitBreakerStateChange(endpoint, oldState, newState) })
}

// OnCacheHit notifies all observers
func (c *CompositeObserver) OnCacheHit(key string) {
	c.each(func(o Observer) { o.OnCacheHit(key) })
}

// OnCacheMiss notifies all observers
func (c *CompositeObserver) OnCacheMiss(key string) {
	c.each(func(o Observer) { o.OnCacheMiss(key) })
}
