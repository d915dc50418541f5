// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxBodySize caps how much of a reply is read. Exports are the largest.
const maxBodySize = 16 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the exchange client.
type ClientConfig struct {
	// BaseURL is the backend root (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout bounds every request, including reading the body (default: 60s)
	Timeout time.Duration

	// UserAgent is sent on every request (default: healthmate-tui)
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "http://127.0.0.1:5000",
		Timeout:   60 * time.Second,
		UserAgent: "healthmate-tui",
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the HealthMate backend.
//
// The Client is safe for concurrent use; export, clear and send may run at the
// same time. Callers that need at most one send in flight enforce that
// themselves.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:5000"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "healthmate-tui"
	}

	// cookiejar.New only fails on a bad PublicSuffixList, and we pass none.
	jar, _ := cookiejar.New(nil)

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Jar:     jar,
		},
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Send submits one user message. It succeeds only when the reply decodes and
// carries success: true; the HTTP status is not consulted.
func (c *Client) Send(ctx context.Context, text string) (*SendResult, error) {
	var resp AskResponse
	if _, err := c.do(ctx, http.MethodPost, "/ask", AskRequest{Message: text}, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return nil, rejected("message was not answered", resp.Error)
	}
	if resp.UserMessage == nil || resp.BotMessage == nil {
		return nil, &ClientError{Type: ErrTypeTransport, Message: "invalid response from server", Cause: errors.New("reply is missing messages")}
	}

	return &SendResult{
		UserMessage: *resp.UserMessage,
		BotMessage:  *resp.BotMessage,
		Suggestions: resp.Suggestions,
	}, nil
}

// Export fetches the transcript as pre-formatted text with a suggested
// filename.
func (c *Client) Export(ctx context.Context) (*ExportResult, error) {
	var resp ExportResult
	status, err := c.do(ctx, http.MethodGet, "/export_chat", nil, &resp)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		return nil, rejected("export refused", http.StatusText(status))
	}
	return &resp, nil
}

// Clear asks the backend to drop the server-side transcript.
func (c *Client) Clear(ctx context.Context) error {
	var resp ClearResponse
	if _, err := c.do(ctx, http.MethodPost, "/clear_chat", nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return rejected("clear refused", resp.Error)
	}
	return nil
}

// QuickActions fetches the canned prompts the backend offers.
func (c *Client) QuickActions(ctx context.Context) ([]QuickAction, error) {
	var actions []QuickAction
	status, err := c.do(ctx, http.MethodGet, "/quick_actions", nil, &actions)
	if err != nil {
		return nil, err
	}
	if status >= http.StatusBadRequest {
		return nil, rejected("quick actions unavailable", http.StatusText(status))
	}
	return actions, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

func rejected(message, detail string) *ClientError {
	e := &ClientError{Type: ErrTypeRejected, Message: message}
	if detail != "" {
		e.Cause = errors.New(detail)
	}
	return e
}

// do performs one request and decodes the JSON reply into out regardless of
// status. It returns the HTTP status for callers that care.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return 0, &ClientError{Type: ErrTypeUnknown, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return 0, &ClientError{Type: ErrTypeTransport, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := log.With().Str("request_id", requestID).Str("method", method).Str("path", path).Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cerr := classifyTransport(err)
		logger.Warn().Err(cerr).Dur("elapsed", time.Since(start)).Msg("request failed")
		return 0, cerr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		cerr := classifyTransport(err)
		logger.Warn().Err(cerr).Int("status", resp.StatusCode).Msg("failed to read reply")
		return resp.StatusCode, cerr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		logger.Warn().Err(err).Int("status", resp.StatusCode).Msg("undecodable reply")
		return resp.StatusCode, &ClientError{
			Type:    ErrTypeTransport,
			Message: ErrInvalidResponse.Message,
			Cause:   fmt.Errorf("status %d: %w", resp.StatusCode, err),
		}
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request complete")
	return resp.StatusCode, nil
}

func classifyTransport(err error) *ClientError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ClientError{Type: ErrTypeTransport, Message: ErrTimeout.Message, Cause: err}
	}
	return &ClientError{Type: ErrTypeTransport, Message: "connection failed", Cause: err}
}
