package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"folioterm/internal/portfolio"
)

const apiKeyHeader = "apikey"

// HTTPClient talks JSON to the hosted platform, or to Server during
// development.
type HTTPClient struct {
	BaseURL string
	// AnonKey is the public key sent with every request.
	AnonKey string
	HTTP    *http.Client
}

func NewHTTPClient(baseURL, anonKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		AnonKey: anonKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// StatusError is a non-2xx response.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func (c *HTTPClient) SendMessage(ctx context.Context, msg Message) error {
	if err := c.do(ctx, http.MethodPost, "/api/messages", "", msg, nil); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (c *HTTPClient) SubmitTestimonial(ctx context.Context, t Testimonial) error {
	if err := c.do(ctx, http.MethodPost, "/api/testimonials", "", t, nil); err != nil {
		return fmt.Errorf("submit testimonial: %w", err)
	}
	return nil
}

func (c *HTTPClient) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	var sess Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", creds, &sess)
	var se *StatusError
	if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusBadRequest) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("authenticate: %w", err)
	}
	return sess, nil
}

func (c *HTTPClient) Snapshot(ctx context.Context) (portfolio.Snapshot, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/snapshot", "", nil, &raw); err != nil {
		return portfolio.Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	snap, err := portfolio.Parse(raw)
	if err != nil {
		return portfolio.Snapshot{}, fmt.Errorf("fetch snapshot: %w", err)
	}
	return snap, nil
}

func (c *HTTPClient) AdminSummary(ctx context.Context, sess Session) (AdminSummary, error) {
	var out AdminSummary
	err := c.do(ctx, http.MethodGet, "/api/admin/summary", sess.Token, nil, &out)
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
		return AdminSummary{}, ErrUnauthorized
	}
	if err != nil {
		return AdminSummary{}, fmt.Errorf("admin summary: %w", err)
	}
	return out, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AnonKey != "" {
		req.Header.Set(apiKeyHeader, c.AnonKey)
	}
	if token == "" {
		token = c.AnonKey
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return fmt.Errorf("%s %s: %w", method, path, &StatusError{Status: resp.StatusCode, Message: e.Error})
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
