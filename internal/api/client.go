package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// TokenProvider supplies the current bearer token, if any. An empty string
// means unauthenticated; the request is then sent without an Authorization
// header.
type TokenProvider interface {
	Token() string
}

// Client talks to the Brewdesk backend. All methods decode the standard
// response envelope {message, data, error} and surface the message as a
// Notice.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	logger  *slog.Logger
}

// New returns a Client for the backend at baseURL. tokens may be nil for a
// client that only performs unauthenticated calls.
func New(baseURL string, tokens TokenProvider, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logger,
	}
}

// Error is a non-2xx response from the backend, carrying the decoded
// envelope notice alongside the status code.
type Error struct {
	StatusCode int
	Notice     Notice
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Notice.Text)
}

// IsUnauthorized reports whether err is a backend 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// ErrorNotice maps any error returned by a Client method to a displayable
// Notice. Backend errors keep their envelope message; transport failures
// collapse to a generic network notice so raw dial errors never reach the
// screen.
func ErrorNotice(err error) Notice {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Notice
	}
	return Notice{Kind: NoticeError, Text: "Network error occurred"}
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Message message         `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// do sends a request and decodes the envelope. On 2xx it returns the data
// payload and the envelope notice; on any other status it returns an *Error
// carrying the notice.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, Notice, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, Notice{}, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, Notice{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, Notice{}, err
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Severity comes from the envelope key, not the HTTP status;
		// a 404 carrying only a warning stays a warning.
		n := env.Message.notice()
		if decodeErr != nil || n.Text == "" {
			n = Notice{Kind: NoticeError, Text: http.StatusText(resp.StatusCode)}
		}
		c.logger.Warn("request rejected", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
		return nil, Notice{}, &Error{StatusCode: resp.StatusCode, Notice: n}
	}
	if decodeErr != nil {
		return nil, Notice{}, fmt.Errorf("decode response: %w", decodeErr)
	}

	c.logger.Debug("request ok", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
	return env.Data, env.Message.notice(), nil
}
