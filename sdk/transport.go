package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const tracerName = "github.com/birbparty/go-confluence/sdk"

// request describes one logical call against the REST API. Exactly one of
// path or target is set.
type request struct {
	method string
	// route is the path template ("space/{key}"), used for metrics,
	// spans and circuit breaker keys
	route string
	// path is relative to <base>/rest/api/ and already escaped
	path string
	// target is an absolute URL (paging and download links)
	target *url.URL
	query  url.Values
	// body is JSON encoded unless it is a *multipartBody
	body interface{}
	// expect lists the accepted 2xx status codes; empty accepts any 2xx
	expect []int
	// result is decoded from JSON; a *[]byte receives the raw body
	result interface{}
}

// httpTransport sends requests to Confluence with retry, circuit breaking,
// rate limiting, caching, tracing and observer notification.
type httpTransport struct {
	client  *http.Client
	config  *Config
	baseURL *url.URL
	apiRoot *url.URL

	circuitBreaker            CircuitBreaker
	perEndpointCircuitBreaker *perEndpointCircuitBreaker
	retryExecutor             *retryExecutor
	limiter                   *rate.Limiter

	cache    ResponseCache
	observer Observer
	logger   *logrus.Entry
	tracer   trace.Tracer

	closed atomic.Bool
}

// newHTTPTransport expects a validated config.
func newHTTPTransport(config *Config) (*httpTransport, error) {
	baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, WrapError(err, ErrorTypeValidation, "invalid base URL")
	}
	apiRoot, err := url.Parse(baseURL.String() + "/rest/api/")
	if err != nil {
		return nil, WrapError(err, ErrorTypeValidation, "invalid base URL")
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.TransportConfig.MaxIdleConns,
		MaxConnsPerHost:     config.TransportConfig.MaxConnsPerHost,
		IdleConnTimeout:     config.TransportConfig.IdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	t := &httpTransport{
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config:   config,
		baseURL:  baseURL,
		apiRoot:  apiRoot,
		cache:    config.Cache,
		observer: config.Observer,
		logger:   config.Logger,
		tracer:   otel.Tracer(tracerName),
	}

	t.circuitBreaker = NewNoopCircuitBreaker()
	if config.CircuitBreakerConfig != nil {
		if config.EnablePerEndpointCircuitBreaker {
			t.perEndpointCircuitBreaker = newPerEndpointCircuitBreaker(*config.CircuitBreakerConfig, t.onCircuitStateChange)
		} else {
			t.circuitBreaker = newCircuitBreaker(*config.CircuitBreakerConfig, func(from, to CircuitState) {
				t.onCircuitStateChange("*", from, to)
			})
		}
	}

	strategy := config.RetryStrategy
	if strategy == nil {
		strategy = &ExponentialBackoffStrategy{
			InitialInterval: config.RetryConfig.InitialInterval,
			MaxInterval:     config.RetryConfig.MaxInterval,
			Multiplier:      config.RetryConfig.Multiplier,
			Jitter:          0.3,
			Budget: RetryBudget{
				MaxAttempts: config.RetryConfig.MaxRetries + 1,
			},
		}
	}
	t.retryExecutor = newRetryExecutor(strategy, nil)

	if config.RateLimit > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst)
	}

	return t, nil
}

func (t *httpTransport) onCircuitStateChange(endpoint string, from, to CircuitState) {
	t.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"from":     from.String(),
		"to":       to.String(),
	}).Warn("confluence circuit breaker changed state")
	t.observer.OnCircuitBreakerStateChange(endpoint, from, to)
}

// resolve returns the absolute URL of req, including its query.
func (t *httpTransport) resolve(req *request) (*url.URL, error) {
	var target *url.URL
	if req.target != nil {
		u := *req.target
		target = &u
	} else {
		rel, err := url.Parse(req.path)
		if err != nil {
			return nil, invalidArgument("invalid request path %q: %v", req.path, err)
		}
		target = t.apiRoot.ResolveReference(rel)
	}
	if len(req.query) > 0 {
		q := target.Query()
		for key, values := range req.query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		target.RawQuery = q.Encode()
	}
	return target, nil
}

// do executes req. Every call produces one OnRequestStart/OnRequestEnd pair
// and one span regardless of retries.
func (t *httpTransport) do(ctx context.Context, req *request) error {
	if t.closed.Load() {
		return NewError(ErrorTypeValidation, "client is closed", ErrClientClosed)
	}

	target, err := t.resolve(req)
	if err != nil {
		return err
	}

	payload, contentType, err := encodeBody(req.body)
	if err != nil {
		return err
	}

	ctx, span := t.tracer.Start(ctx, "confluence "+req.method+" "+req.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPMethodKey.String(req.method),
			semconv.HTTPURLKey.String(target.String()),
		),
	)
	defer span.End()

	t.observer.OnRequestStart(req.method, req.route)
	start := time.Now()

	status, err := t.execute(ctx, req, target, payload, contentType)

	duration := time.Since(start)
	t.observer.OnRequestEnd(req.method, req.route, status, duration, err)

	if status > 0 {
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.WithFields(logrus.Fields{
			"method":   req.method,
			"route":    req.route,
			"status":   status,
			"duration": duration,
		}).WithError(err).Debug("confluence request failed")
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (t *httpTransport) execute(ctx context.Context, req *request, target *url.URL, payload []byte, contentType string) (int, error) {
	cacheable := req.method == http.MethodGet && t.cache != nil
	key := cacheKey(target)

	if cacheable {
		if cached, err := t.cache.Get(ctx, key); err == nil {
			if err := decodeResult(cached, req.result); err == nil {
				t.observer.OnCacheHit(key)
				return http.StatusOK, nil
			}
		}
		t.observer.OnCacheMiss(key)
	}

	var (
		status int
		body   []byte
	)
	requestID := uuid.NewString()
	executor := &retryExecutor{
		strategy: t.retryExecutor.strategy,
		onRetry: func(attempt int, delay time.Duration, err error) {
			t.observer.OnRetryAttempt(req.method, req.route, attempt, delay, err)
			t.logger.WithFields(logrus.Fields{
				"method":  req.method,
				"route":   req.route,
				"attempt": attempt,
				"delay":   delay,
			}).WithError(err).Warn("retrying confluence request")
		},
	}

	if !idempotent(req.method) {
		executor.allow = refusedBeforeProcessing
	}

	attempt := func() error {
		return executor.Execute(ctx, func() error {
			var err error
			status, body, err = t.roundTrip(ctx, req, target, payload, contentType, requestID)
			return err
		})
	}

	var err error
	if t.perEndpointCircuitBreaker != nil {
		err = t.perEndpointCircuitBreaker.Execute(req.method+" "+req.route, attempt)
	} else {
		err = t.circuitBreaker.Execute(attempt)
	}
	if err != nil {
		return status, err
	}

	if len(req.expect) > 0 && !expected(status, req.expect) {
		return status, NewError(ErrorTypeUnknown,
			fmt.Sprintf("expected status %v, got %d", req.expect, status),
			ErrUnexpectedStatus,
		).WithContext(&ErrorContext{URL: target.String(), Method: req.method})
	}

	if err := decodeResult(body, req.result); err != nil {
		return status, err
	}

	if t.cache != nil {
		if cacheable {
			if err := t.cache.Set(ctx, key, body, t.config.CacheTTL); err != nil {
				t.logger.WithError(err).WithField("key", key).Debug("failed to cache confluence response")
			}
		} else {
			t.invalidate(ctx, target)
		}
	}
	return status, nil
}

// roundTrip performs a single HTTP exchange and classifies its failure.
func (t *httpTransport) roundTrip(ctx context.Context, req *request, target *url.URL, payload []byte, contentType, requestID string) (int, []byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return 0, nil, (&TimeoutError{Op: "rate limit wait", Err: err}).ToError()
		}
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target.String(), bodyReader)
	if err != nil {
		return 0, nil, WrapError(err, ErrorTypeValidation, "failed to create request")
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Atlassian-Token", "no-check")
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("User-Agent", t.config.UserAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, value := range t.config.Headers {
		httpReq.Header.Set(key, value)
	}
	t.config.Auth.Apply(httpReq)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	op := req.method + " " + req.route
	started := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		return 0, nil, classifyTransportError(ctx, op, err).WithContext(&ErrorContext{
			URL:      target.String(),
			Method:   req.method,
			Duration: time.Since(started),
		})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, (&NetworkError{Op: "reading response of " + op, Err: err}).ToError()
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, respBody, nil
	}

	apiErr := parseAPIError(resp.StatusCode, resp.Header, respBody)
	enhanced := apiErr.ToError().WithContext(&ErrorContext{
		URL:      target.String(),
		Method:   req.method,
		Duration: time.Since(started),
	})
	enhanced.RequestID = requestID
	return resp.StatusCode, nil, enhanced
}

func (t *httpTransport) invalidate(ctx context.Context, target *url.URL) {
	u := *target
	u.RawQuery = ""
	key := cacheKey(&u)
	if err := t.cache.Delete(ctx, key); err != nil {
		t.logger.WithError(err).WithField("key", key).Debug("failed to invalidate cached confluence response")
	}
}

func (t *httpTransport) close() error {
	if t.closed.Swap(true) {
		return nil
	}
	t.client.CloseIdleConnections()
	return nil
}

func classifyTransportError(ctx context.Context, op string, err error) *Error {
	if ctx.Err() != nil {
		return (&TimeoutError{Op: op, Err: ctx.Err()}).ToError()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return (&TimeoutError{Op: op, Err: err}).ToError()
	}
	return (&NetworkError{Op: op, Err: err}).ToError()
}

func expected(status int, accepted []int) bool {
	for _, c := range accepted {
		if c == status {
			return true
		}
	}
	return false
}

// cacheKey identifies a GET response by its full URL.
func cacheKey(u *url.URL) string {
	return "confluence:" + u.String()
}

// buildPath substitutes the {placeholders} of pattern, in order, with the
// escaped args.
//
//	buildPath("space/{key}/content", "MY SPACE")
//	// "space/MY%20SPACE/content"
//
// QueryEscape also escapes '/', '?' and '&'; '+' is replaced with '%20'
// since '+' only means space in query strings.
func buildPath(pattern string, args ...string) string {
	var b strings.Builder
	rest := pattern
	for _, arg := range args {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			break
		}
		b.WriteString(rest[:open])
		b.WriteString(strings.ReplaceAll(url.QueryEscape(arg), "+", "%20"))
		rest = rest[open+end+1:]
	}
	b.WriteString(rest)
	return b.String()
}
