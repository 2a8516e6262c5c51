// Package sdk is a client for the Confluence REST API (<base>/rest/api).
//
// # Features
//
// The SDK provides:
//   - Services for spaces, content, labels, search, attachments, users,
//     watchers, groups and system information
//   - CQL search driven by the typed query builder in package cql
//   - Link based pagination with Result, PagingInformation and Pager
//   - Automatic retries with exponential backoff, honouring Retry-After
//   - Circuit breaker and client-side rate limiting
//   - An optional response cache for GET requests
//   - OpenTelemetry spans for every request and Observer hooks for metrics
//   - Typed errors with retryable error detection
//
// # Basic Usage
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/birbparty/go-confluence/cql"
//	    "github.com/birbparty/go-confluence/sdk"
//	)
//
//	func main() {
//	    client, err := sdk.NewClient(sdk.DefaultConfig().
//	        WithBaseURL("https://example.atlassian.net/wiki").
//	        WithBasicAuth("jsmith@example.com", os.Getenv("CONFLUENCE_TOKEN")))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer client.Close()
//
//	    ctx := context.Background()
//
//	    space, err := cql.Where.Space().Is(cql.SpaceKey("DEV"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    recent, err := cql.Where.LastModified().After(cql.Relative("-1w"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    query, err := cql.And(space, recent)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pager := client.Search().ContentPager(query, &sdk.SearchOptions{Limit: sdk.Int(50)})
//	    for pager.Next(ctx) {
//	        for _, c := range pager.Page().Results {
//	            fmt.Println(c.ID, c.Title)
//	        }
//	    }
//	    if err := pager.Err(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Configuration
//
//	config := sdk.DefaultConfig().
//	    WithBaseURL("https://wiki.example.com").
//	    WithBearerToken(token).
//	    WithTimeout(10 * time.Second).
//	    WithRetries(5).
//	    WithRateLimit(10, 5).
//	    WithCircuitBreaker(sdk.DefaultCircuitBreakerConfig())
//
// # Error Handling
//
//	page, err := client.Content().Get(ctx, "12345", []string{"body.storage", "version"})
//	switch {
//	case sdk.IsNotFound(err):
//	    // no such page
//	case errors.Is(err, sdk.ErrUnauthorized):
//	    // credentials rejected
//	case errors.Is(err, sdk.ErrInvalidArgument):
//	    // caller error, nothing was sent
//	case sdk.IsRetryable(err):
//	    // retries were exhausted
//	}
//
// # Observability
//
// Every request runs inside a span from the global OpenTelemetry tracer
// provider, and the trace context is propagated to Confluence. Metrics are
// reported through Observer; internal/telemetry provides a Prometheus
// implementation and MetricsCollector keeps them in memory.
package sdk
