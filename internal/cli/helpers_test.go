package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/birbparty/go-confluence/internal/testutil"
)

// isolateEnv blanks every variable the CLI reads so the host environment
// cannot leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFLUENCE_BASE_URL", "CONFLUENCE_USERNAME", "CONFLUENCE_PASSWORD", "CONFLUENCE_TOKEN",
		"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB",
		"CACHE_ENABLED", "CACHE_DEFAULT_TTL", "LOG_LEVEL", "LOG_FORMAT",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORT_TO_FILE", "ENABLE_TRACING", "ENABLE_METRICS",
	} {
		t.Setenv(key, "")
	}
}

type result struct {
	stdout string
	stderr string
	code   int
}

func run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, &stdout, &stderr)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// newServer starts a mock Confluence and points the CLI at it with basic
// auth credentials from the environment.
func newServer(t *testing.T) *testutil.MockServer {
	t.Helper()
	isolateEnv(t)
	server := testutil.NewMockServer()
	t.Cleanup(server.Close)
	t.Setenv("CONFLUENCE_BASE_URL", server.URL)
	t.Setenv("CONFLUENCE_USERNAME", "jsmith")
	t.Setenv("CONFLUENCE_PASSWORD", "secret")
	return server
}
