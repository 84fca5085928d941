// Package testutil holds helpers shared by the integration tests: JSON
// requests against a gin engine, decoding of the response envelope and a
// recording event handler.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Envelope mirrors dto.Response with the payload left raw so each test can
// decode it into the type it expects
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total      int64  `json:"total"`
		Page       int    `json:"page"`
		PageSize   int    `json:"page_size"`
		TotalPages int    `json:"total_pages"`
		Layout     string `json:"layout"`
	} `json:"meta"`
}

// ErrorCode returns the error code, or "" for a successful response
func (e *Envelope) ErrorCode() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Code
}

// Result is one recorded response
type Result struct {
	Code     int
	Header   http.Header
	Body     []byte
	Envelope Envelope
}

// Client sends JSON requests to an engine, optionally with a bearer token
type Client struct {
	Engine *gin.Engine
	Token  string
}

// WithToken returns a copy of c that authenticates with token
func (c Client) WithToken(token string) Client {
	c.Token = token
	return c
}

// Do sends a request; body is marshalled to JSON when non-nil. Responses
// that are not JSON leave Envelope zero.
func (c Client) Do(t *testing.T, method, path string, body any) *Result {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	w := httptest.NewRecorder()
	c.Engine.ServeHTTP(w, req)

	res := &Result{Code: w.Code, Header: w.Header(), Body: w.Body.Bytes()}
	if len(res.Body) > 0 && json.Valid(res.Body) {
		require.NoError(t, json.Unmarshal(res.Body, &res.Envelope))
	}
	return res
}

// Decode unmarshals the envelope data into T
func Decode[T any](t *testing.T, res *Result) T {
	t.Helper()
	var out T
	require.NotEmpty(t, res.Envelope.Data, "response has no data: %s", res.Body)
	require.NoError(t, json.Unmarshal(res.Envelope.Data, &out))
	return out
}

// RequireStatus fails the test with the body when the status differs
func RequireStatus(t *testing.T, res *Result, code int) {
	t.Helper()
	require.Equal(t, code, res.Code, "unexpected status, body: %s", res.Body)
}
