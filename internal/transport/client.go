// Package transport is the authenticated request path between the console
// and the data-collection API. It attaches the bearer token, decodes the
// standard response envelope and retries exactly once after a refreshed
// token when the server answers 401.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/agri-dcp-console/internal/models"
	"github.com/noah-isme/agri-dcp-console/internal/session"
	"github.com/noah-isme/agri-dcp-console/pkg/config"
	appErrors "github.com/noah-isme/agri-dcp-console/pkg/errors"
)

// requestState tracks one request through the retry machine. The states
// make the retry-once invariant structural: Resent can only be reached
// from Refreshing, and Refreshing only from the first Sent.
type requestState int

const (
	stateSent requestState = iota
	stateRefreshing
	stateResent
	stateDone
	stateLoggedOut
)

// Client issues envelope-shaped requests with the current session attached.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
	logger  *zap.Logger
	metrics *Metrics

	// onSessionExpired fires after a failed refresh ended the session, so
	// the caller can route the user back to sign-in.
	onSessionExpired func()
}

// New builds a transport client. metrics and onSessionExpired may be nil.
func New(api config.APIConfig, sess *session.Manager, logger *zap.Logger, metrics *Metrics, onSessionExpired func()) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:          api.BaseURL,
		http:             &http.Client{Timeout: api.Timeout},
		session:          sess,
		logger:           logger,
		metrics:          metrics,
		onSessionExpired: onSessionExpired,
	}
}

// Do sends one request and returns the decoded envelope of a successful
// response. Errors are always typed (*errors.Error).
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*models.Envelope, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not encode request body")
		}
	}

	start := time.Now()
	token := c.session.Token()
	state := stateSent

	for {
		switch state {
		case stateSent, stateResent:
			envelope, status, err := c.send(ctx, method, path, query, payload, token)
			if err != nil {
				c.metrics.observeRequest(method, "network_error", time.Since(start).Seconds())
				return nil, appErrors.Wrap(err, appErrors.ErrNetworkFailure.Code, appErrors.ErrNetworkFailure.Status, appErrors.ErrNetworkFailure.Message)
			}

			if status == http.StatusUnauthorized {
				if state == stateResent {
					// Already retried once; never refresh again here.
					c.metrics.observeRequest(method, "unauthorized", time.Since(start).Seconds())
					return nil, appErrors.Clone(appErrors.ErrSessionExpired, envelope.Message)
				}
				state = stateRefreshing
				continue
			}

			if err := envelopeError(status, envelope); err != nil {
				c.metrics.observeRequest(method, "error", time.Since(start).Seconds())
				return nil, err
			}

			state = stateDone
			c.metrics.observeRequest(method, "ok", time.Since(start).Seconds())
			return envelope, nil

		case stateRefreshing:
			fresh, err := c.session.Refresh(ctx, token)
			if err != nil || fresh == "" {
				state = stateLoggedOut
				continue
			}
			token = fresh
			c.metrics.observeAuthRetry()
			c.logger.Debug("resending request with refreshed token",
				zap.String("method", method), zap.String("path", path))
			state = stateResent

		case stateLoggedOut:
			c.metrics.observeRefreshFailure()
			c.session.Logout()
			if c.onSessionExpired != nil {
				c.onSessionExpired()
			}
			c.metrics.observeRequest(method, "session_expired", time.Since(start).Seconds())
			return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
		}
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (*models.Envelope, int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	envelope := &models.Envelope{}
	if err := json.NewDecoder(resp.Body).Decode(envelope); err != nil {
		envelope = &models.Envelope{Success: resp.StatusCode < http.StatusBadRequest}
	}

	c.logger.Debug("api_request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
	)

	return envelope, resp.StatusCode, nil
}

// envelopeError maps a decoded response onto the error taxonomy. A nil
// return means the request succeeded.
func envelopeError(status int, envelope *models.Envelope) error {
	if status < http.StatusBadRequest && envelope.Success {
		return nil
	}

	switch {
	case status == http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, envelope.Message)
	case status == http.StatusBadRequest && len(envelope.Errors) > 0:
		return appErrors.Clone(appErrors.ErrValidation, formatFieldErrors(envelope))
	default:
		return appErrors.Clone(appErrors.ErrServer, envelope.Message)
	}
}

func formatFieldErrors(envelope *models.Envelope) string {
	parts := make([]string, 0, len(envelope.Errors))
	for _, fe := range envelope.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	msg := envelope.Message
	if msg == "" {
		msg = "validation failed"
	}
	return msg + " (" + strings.Join(parts, "; ") + ")"
}
