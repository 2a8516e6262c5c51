package sdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		reason  string
	}{
		{
			name:    "confluence error document",
			status:  http.StatusNotFound,
			body:    `{"statusCode":404,"message":"No content found with id: 1","reason":"Not Found"}`,
			message: "No content found with id: 1",
			reason:  "Not Found",
		},
		{
			name:    "empty body",
			status:  http.StatusBadGateway,
			body:    "",
			message: "HTTP 502 error",
			reason:  "Bad Gateway",
		},
		{
			name:    "html body",
			status:  http.StatusServiceUnavailable,
			body:    "<html>Service Unavailable</html>",
			message: "<html>Service Unavailable</html>",
			reason:  "Service Unavailable",
		},
		{
			name:    "json without message",
			status:  http.StatusBadRequest,
			body:    `{"statusCode":400}`,
			message: "HTTP 400 error",
			reason:  "Bad Request",
		},
		{
			name:    "status code from response wins",
			status:  http.StatusConflict,
			body:    `{"statusCode":500,"message":"A page with this title already exists"}`,
			message: "A page with this title already exists",
			reason:  "Conflict",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := parseAPIError(tt.status, nil, []byte(tt.body))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.reason, apiErr.Reason)
		})
	}
}

func TestParseAPIErrorValidationData(t *testing.T) {
	body := `{"statusCode":400,"message":"Could not create content","data":{"authorized":true,"valid":false,"errors":[{"message":{"key":"title.duplicate","args":["Home"]}}]}}`
	apiErr := parseAPIError(http.StatusBadRequest, nil, []byte(body))
	require.NotNil(t, apiErr.Data)
	assert.True(t, apiErr.Data.Authorized)
	assert.False(t, apiErr.Data.Valid)
	require.Len(t, apiErr.Data.Errors, 1)
	assert.Equal(t, "title.duplicate", apiErr.Data.Errors[0].Message.Key)
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 120*time.Second, parseRetryAfter("120", now))
	assert.Equal(t, 30*time.Second, parseRetryAfter(now.Add(30*time.Second).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter(now.Add(-time.Minute).Format(http.TimeFormat), now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("-5", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon", now))
	assert.Equal(t, time.Duration(0), parseRetryAfter("", now))

	header := http.Header{}
	header.Set("Retry-After", "7")
	apiErr := parseAPIError(http.StatusTooManyRequests, header, nil)
	assert.Equal(t, 7*time.Second, apiErr.RetryAfter)
}

func TestEncodeBody(t *testing.T) {
	payload, contentType, err := encodeBody(nil)
	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.Empty(t, contentType)

	payload, contentType, err = encodeBody(map[string]string{"key": "DEV"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"key":"DEV"}`, string(payload))

	payload, _, err = encodeBody(json.RawMessage(`{"raw":true}`))
	require.NoError(t, err)
	assert.Equal(t, `{"raw":true}`, string(payload))

	_, _, err = encodeBody(map[string]interface{}{"bad": make(chan int)})
	assert.Error(t, err)
}

func TestEncodeMultipart(t *testing.T) {
	payload, contentType, err := encodeBody(&multipartBody{
		fileName: `quote"d.txt`,
		content:  strings.NewReader("x"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.Contains(t, string(payload), `filename="quote\"d.txt"`)
	assert.NotContains(t, string(payload), `name="comment"`)

	_, _, err = encodeBody(&multipartBody{content: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, _, err = encodeBody(&multipartBody{fileName: "a.txt"})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDecodeResult(t *testing.T) {
	var space Space
	require.NoError(t, decodeResult([]byte(`{"key":"DEV"}`), &space))
	assert.Equal(t, "DEV", space.Key)

	require.NoError(t, decodeResult(nil, &space))
	require.NoError(t, decodeResult([]byte("anything"), nil))

	var raw []byte
	require.NoError(t, decodeResult([]byte("binary\x00data"), &raw))
	assert.Equal(t, "binary\x00data", string(raw))

	err := decodeResult([]byte("<html>"), &space)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}
