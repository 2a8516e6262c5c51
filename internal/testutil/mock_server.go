// Package testutil provides an httptest Confluence stand-in and container
// helpers for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// APIPrefix is the path of the REST API below the server root.
const APIPrefix = "/rest/api/"

// MockServer is a Confluence stand-in. Handlers are registered for
// "METHOD /path" patterns; a pattern ending in "/" matches every path below
// it.
type MockServer struct {
	*httptest.Server
	mu           sync.RWMutex
	handlers     map[string]HandlerFunc
	requestCount atomic.Int32
	requests     []RecordedRequest
}

// HandlerFunc returns the status and the response. A []byte response is
// written as is, anything else is JSON encoded.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) (int, interface{})

// RecordedRequest stores information about a received request
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Body    []byte
	Time    time.Time
}

// NewMockServer starts a server answering settings/systemInfo and
// user/current like a Confluence Server instance.
func NewMockServer() *MockServer {
	ms := &MockServer{
		handlers: make(map[string]HandlerFunc),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", ms.handleRequest)
	ms.Server = httptest.NewServer(mux)

	ms.Handle("GET settings/systemInfo", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{
			"commitHash":  "abc123",
			"baseUrl":     ms.URL,
			"siteTitle":   "Test Wiki",
			"buildNumber": "8703",
		}
	})
	ms.Handle("GET user/current", func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return http.StatusOK, map[string]interface{}{
			"type":        "known",
			"username":    "jsmith",
			"userKey":     "ff8080817b0a",
			"displayName": "Jane Smith",
		}
	})

	return ms
}

// RegisterHandler registers handler for a "METHOD /absolute/path" pattern.
func (ms *MockServer) RegisterHandler(pattern string, handler HandlerFunc) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers[pattern] = handler
}

// Handle registers handler for a "METHOD path" pattern relative to the
// REST API, for example "GET space/DEV".
func (ms *MockServer) Handle(pattern string, handler HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	ms.RegisterHandler(method+" "+APIPrefix+strings.TrimLeft(path, "/"), handler)
}

// Respond registers a fixed response.
func (ms *MockServer) Respond(pattern string, status int, response interface{}) {
	ms.Handle(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		return status, response
	})
}

func (ms *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	ms.mu.Lock()
	ms.requests = append(ms.requests, RecordedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Headers: r.Header.Clone(),
		Body:    body,
		Time:    time.Now(),
	})
	ms.mu.Unlock()
	ms.requestCount.Add(1)

	pattern := r.Method + " " + r.URL.Path
	ms.mu.RLock()
	handler, exact := ms.handlers[pattern]
	if !exact {
		longest := 0
		for p, h := range ms.handlers {
			if strings.HasSuffix(p, "/") && strings.HasPrefix(pattern, p) && len(p) > longest {
				handler, longest = h, len(p)
			}
		}
	}
	ms.mu.RUnlock()

	if handler == nil {
		writeJSON(w, http.StatusNotFound, ErrorBody(http.StatusNotFound, "No handler for "+pattern))
		return
	}

	status, response := handler(w, r)
	if raw, ok := response.([]byte); ok {
		w.WriteHeader(status)
		_, _ = w.Write(raw)
		return
	}
	writeJSON(w, status, response)
}

func writeJSON(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if response != nil {
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ErrorBody returns a Confluence error document.
func ErrorBody(status int, message string) map[string]interface{} {
	return map[string]interface{}{
		"statusCode": status,
		"message":    message,
		"reason":     http.StatusText(status),
	}
}

// RequestCount returns the total number of requests received
func (ms *MockServer) RequestCount() int {
	return int(ms.requestCount.Load())
}

// Requests returns all recorded requests
func (ms *MockServer) Requests() []RecordedRequest {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]RecordedRequest, len(ms.requests))
	copy(result, ms.requests)
	return result
}

// LastRequest returns the most recent request, or a zero value.
func (ms *MockServer) LastRequest() RecordedRequest {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	if len(ms.requests) == 0 {
		return RecordedRequest{}
	}
	return ms.requests[len(ms.requests)-1]
}

// Reset clears all recorded requests
func (ms *MockServer) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.requestCount.Store(0)
	ms.requests = ms.requests[:0]
}

// WithErrorResponse makes pattern fail with a Confluence error document.
func (ms *MockServer) WithErrorResponse(pattern string, statusCode int, message string) {
	ms.Respond(pattern, statusCode, ErrorBody(statusCode, message))
}

// WithDelayedResponse delays handler by delay.
func (ms *MockServer) WithDelayedResponse(pattern string, delay time.Duration, handler HandlerFunc) {
	ms.Handle(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		time.Sleep(delay)
		return handler(w, r)
	})
}

// WithRetryResponse fails pattern failCount times with failStatus, then
// returns success. It returns the attempt counter.
func (ms *MockServer) WithRetryResponse(pattern string, failCount, failStatus int, success interface{}) *atomic.Int32 {
	attempts := &atomic.Int32{}
	ms.Handle(pattern, func(w http.ResponseWriter, r *http.Request) (int, interface{}) {
		if int(attempts.Add(1)) <= failCount {
			return failStatus, ErrorBody(failStatus, "temporary failure")
		}
		return http.StatusOK, success
	})
	return attempts
}
