// Package httpapi implements the ports.FormAPI contract over the backend's
// HTTP/JSON interface.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/aretw0/formflow/pkg/ports"
)

// Client talks to the form backend. It implements ports.FormAPI.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	mu     sync.Mutex
	locale string
}

var _ ports.FormAPI = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client (timeouts, transports, auth).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger configures a logger for request/response events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLocale sets the language requested from the backend. Form definitions
// and validation messages are translated server-side via Accept-Language.
func WithLocale(locale string) Option {
	return func(c *Client) {
		c.locale = locale
	}
}

// NewClient creates a backend client rooted at the given API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLocale switches the language of subsequent requests. The caller refetches
// language-dependent resources afterwards; responses already in flight keep
// the old language.
func (c *Client) SetLocale(locale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locale = locale
}

func (c *Client) currentLocale() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale
}

// FetchForm retrieves the form definition.
func (c *Client) FetchForm(ctx context.Context, formID string) (*domain.Form, error) {
	var form domain.Form
	err := c.doJSON(ctx, http.MethodGet, c.baseURL+"forms/"+formID, nil, &form, domain.ErrFormNotFound)
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// FetchSubmission retrieves an existing submission.
func (c *Client) FetchSubmission(ctx context.Context, submissionID string) (*domain.Submission, error) {
	var sub domain.Submission
	err := c.doJSON(ctx, http.MethodGet, c.baseURL+"submissions/"+submissionID, nil, &sub, domain.ErrSubmissionNotFound)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateSubmission starts a new submission for the form.
func (c *Client) CreateSubmission(ctx context.Context, form *domain.Form) (*domain.Submission, error) {
	body := map[string]string{"form": form.URL, "formUrl": form.URL}
	var sub domain.Submission
	err := c.doJSON(ctx, http.MethodPost, c.baseURL+"submissions", body, &sub, nil)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CompleteSubmission hands the submission over for background processing.
func (c *Client) CompleteSubmission(ctx context.Context, submission *domain.Submission) (string, error) {
	var resp struct {
		StatusURL string `json:"statusUrl"`
	}
	err := c.doJSON(ctx, http.MethodPost, submission.URL+"/_complete", nil, &resp, domain.ErrSubmissionNotFound)
	if err != nil {
		return "", err
	}
	return resp.StatusURL, nil
}

// PollStatus checks the background processing status once.
func (c *Client) PollStatus(ctx context.Context, statusURL string) (*ports.StatusResponse, error) {
	var resp ports.StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, statusURL, nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DestroySession deletes the server-side session of the submission.
func (c *Client) DestroySession(ctx context.Context, submissionID string) error {
	url := c.baseURL + "authentication/" + submissionID + "/session"
	return c.doJSON(ctx, http.MethodDelete, url, nil, nil, domain.ErrSubmissionNotFound)
}

// doJSON performs one request/response cycle. A 404 maps to notFound when
// given; any other non-2xx status becomes a transport-level error.
func (c *Client) doJSON(ctx context.Context, method, url string, in, out any, notFound error) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if locale := c.currentLocale(); locale != "" {
		req.Header.Set("Accept-Language", locale)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call", "method", method, "url", url, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		return notFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("unexpected status %d for %s %s", resp.StatusCode, method, url)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
