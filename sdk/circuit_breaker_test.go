package sdk

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct {
	from, to CircuitState
}

func newTestBreaker(config CircuitBreakerConfig) (*circuitBreaker, *time.Time, *[]transition) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	var transitions []transition
	cb := newCircuitBreaker(config, func(from, to CircuitState) {
		transitions = append(transitions, transition{from, to})
	})
	cb.now = func() time.Time { return now }
	return cb, &now, &transitions
}

func TestCircuitBreakerLifecycle(t *testing.T) {
	cb, now, transitions := newTestBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
		HalfOpenRequests: 1,
	})
	fail := func() error { return errServer }
	succeed := func() error { return nil }

	for i := 0; i < 3; i++ {
		assert.Same(t, errServer, cb.Execute(fail))
	}
	assert.Equal(t, CircuitOpen, cb.State())

	err := cb.Execute(succeed)
	assert.ErrorIs(t, err, ErrCircuitOpen)

	*now = now.Add(time.Minute)
	assert.Equal(t, CircuitHalfOpen, cb.State())

	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CircuitHalfOpen, cb.State())
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, CircuitClosed, cb.State())

	assert.Equal(t, []transition{
		{CircuitClosed, CircuitOpen},
		{CircuitOpen, CircuitHalfOpen},
		{CircuitHalfOpen, CircuitClosed},
	}, *transitions)
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, now, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Second, HalfOpenRequests: 1})

	_ = cb.Execute(func() error { return errServer })
	*now = now.Add(time.Second)
	_ = cb.Execute(func() error { return errServer })
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestCircuitBreakerIgnoresClientErrors(t *testing.T) {
	cb, _, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenRequests: 1})

	notFound := (&APIError{StatusCode: http.StatusNotFound}).ToError()
	for i := 0; i < 5; i++ {
		assert.True(t, IsNotFound(cb.Execute(func() error { return notFound })))
	}
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	cb, _, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Timeout: time.Minute, HalfOpenRequests: 1})

	_ = cb.Execute(func() error { return errServer })
	_ = cb.Execute(func() error { return nil })
	_ = cb.Execute(func() error { return errServer })
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestCircuitBreakerHalfOpenLimit(t *testing.T) {
	cb, now, _ := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 5, Timeout: time.Second, HalfOpenRequests: 1})
	_ = cb.Execute(func() error { return errServer })
	*now = now.Add(time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = cb.Execute(func() error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)

	close(release)
	wg.Wait()
}

func TestCircuitBreakerReset(t *testing.T) {
	cb, _, transitions := newTestBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenRequests: 1})
	_ = cb.Execute(func() error { return errServer })
	require.Equal(t, CircuitOpen, cb.State())

	cb.Reset()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Len(t, *transitions, 2)

	cb.Reset()
	assert.Len(t, *transitions, 2)
}

func TestPerEndpointBreakerIsolation(t *testing.T) {
	var changed []string
	p := newPerEndpointCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Hour, HalfOpenRequests: 1},
		func(endpoint string, from, to CircuitState) { changed = append(changed, endpoint+":"+to.String()) })

	_ = p.Execute("GET space/{key}", func() error { return errServer })
	assert.Equal(t, CircuitOpen, p.State("GET space/{key}"))
	assert.Equal(t, CircuitClosed, p.State("GET content/{id}"))
	assert.NoError(t, p.Execute("GET content/{id}", func() error { return nil }))
	assert.Equal(t, []string{"GET space/{key}:open"}, changed)

	p.ResetAll()
	assert.Equal(t, CircuitClosed, p.State("GET space/{key}"))
}

func TestNoopCircuitBreaker(t *testing.T) {
	cb := NewNoopCircuitBreaker()
	for i := 0; i < 10; i++ {
		assert.Error(t, cb.Execute(func() error { return errors.New("x") }))
	}
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, "half-open", CircuitHalfOpen.String())
}
