package sdk

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/birbparty/go-confluence/internal/testutil"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a client for server that retries quickly.
func newTestClient(t *testing.T, server *testutil.MockServer, configure ...func(*Config)) *Client {
	t.Helper()

	config := DefaultConfig().
		WithBaseURL(server.URL).
		WithBasicAuth("jsmith", "secret").
		WithTimeout(5 * time.Second).
		WithRetryStrategy(&ConstantBackoffStrategy{
			Interval: time.Millisecond,
			Budget:   RetryBudget{MaxAttempts: 3},
		})
	for _, fn := range configure {
		fn(config)
	}

	client, err := NewClient(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newMockServer(t *testing.T) *testutil.MockServer {
	t.Helper()
	server := testutil.NewMockServer()
	t.Cleanup(server.Close)
	return server
}

func decodeRequest(t *testing.T, req testutil.RecordedRequest, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(req.Body, v))
}

func requestQuery(t *testing.T, req testutil.RecordedRequest) url.Values {
	t.Helper()
	q, err := url.ParseQuery(req.Query)
	require.NoError(t, err)
	return q
}

