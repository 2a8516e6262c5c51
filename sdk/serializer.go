package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// multipartBody is an attachment upload. Confluence expects the file in a
// part named "file" and an optional "comment" part.
type multipartBody struct {
	fileName    string
	contentType string
	comment     string
	minorEdit   bool
	content     io.Reader
}

// encodeBody serializes a request body once so retries can resend the same
// bytes. It returns the payload and its Content-Type.
func encodeBody(body interface{}) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *multipartBody:
		return encodeMultipart(b)
	case json.RawMessage:
		return b, "application/json", nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", WrapError(err, ErrorTypeValidation, "failed to marshal request body")
		}
		return data, "application/json", nil
	}
}

func encodeMultipart(b *multipartBody) ([]byte, string, error) {
	if b.fileName == "" {
		return nil, "", invalidArgument("attachment file name is required")
	}
	if b.content == nil {
		return nil, "", invalidArgument("attachment content is required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(b.fileName)))
	contentType := b.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", WrapError(err, ErrorTypeValidation, "failed to create multipart file part")
	}
	if _, err := io.Copy(part, b.content); err != nil {
		return nil, "", WrapError(err, ErrorTypeValidation, "failed to read attachment content")
	}
	if b.comment != "" {
		if err := w.WriteField("comment", b.comment); err != nil {
			return nil, "", WrapError(err, ErrorTypeValidation, "failed to write attachment comment")
		}
	}
	if b.minorEdit {
		if err := w.WriteField("minorEdit", "true"); err != nil {
			return nil, "", WrapError(err, ErrorTypeValidation, "failed to write minorEdit field")
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", WrapError(err, ErrorTypeValidation, "failed to finish multipart body")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// decodeResult unmarshals data into target. A *[]byte target receives the
// raw bytes and a nil target discards the body.
func decodeResult(data []byte, target interface{}) error {
	switch t := target.(type) {
	case nil:
		return nil
	case *[]byte:
		*t = append((*t)[:0], data...)
		return nil
	case *json.RawMessage:
		*t = append((*t)[:0], data...)
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return NewError(ErrorTypeUnknown, fmt.Sprintf("failed to parse response: %v", err), ErrInvalidResponse)
	}
	return nil
}

// parseAPIError parses a Confluence error response. It falls back to the raw
// body as message when the body is not the usual JSON error document, and
// always sets StatusCode from the response.
//
// Handled bodies:
//
//	{"statusCode":404,"message":"No content found with id: 1","reason":"Not Found"}
//	<html>Service Unavailable</html>
//	(empty)
func parseAPIError(statusCode int, header http.Header, body []byte) *APIError {
	apiErr := &APIError{}
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		apiErr.Message = fmt.Sprintf("HTTP %d error", statusCode)
	case json.Unmarshal(trimmed, apiErr) != nil:
		apiErr = &APIError{Message: string(trimmed)}
	case apiErr.Message == "":
		apiErr.Message = fmt.Sprintf("HTTP %d error", statusCode)
	}

	apiErr.StatusCode = statusCode
	if apiErr.Reason == "" {
		apiErr.Reason = http.StatusText(statusCode)
	}
	if header != nil {
		apiErr.RetryAfter = parseRetryAfter(header.Get("Retry-After"), time.Now())
	}
	return apiErr
}

// parseRetryAfter accepts both delta-seconds and an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
