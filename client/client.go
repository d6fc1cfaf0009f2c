package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dns-ledger-sim/ledger"
	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"

	"go.uber.org/zap"
)

// StatusError is returned for any non-2xx reply.
type StatusError struct {
	Code    int
	Message string
}

// Error formats the status code and any message from the body.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status code %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed with status code %d", e.Code)
}

// Client talks to the decision authority and its simulation control endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for baseURL. A zero timeout waits indefinitely.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Start asks the authority to create a fresh validator network.
func (c *Client) Start(ctx context.Context) error {
	return c.post(ctx, "/start_simulation", nil, nil)
}

// Stop asks the authority to tear the validator network down.
func (c *Client) Stop(ctx context.Context) error {
	return c.post(ctx, "/stop_simulation", nil, nil)
}

// Submit sends rec for evaluation. An Accepted verdict whose ledger is
// malformed is reported as an error.
func (c *Client) Submit(ctx context.Context, rec models.CandidateRecord) (*models.Verdict, error) {
	var resp models.SubmitResponse
	if err := c.post(ctx, "/submit_entry", rec, &resp); err != nil {
		return nil, err
	}
	v := resp.Verdict()
	if v.Outcome == models.Accepted {
		if err := ledger.Validate(v.Ledger); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e models.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&e)
		logger.Logger.Debug("Authority returned error status",
			zap.String("path", path), zap.Int("status", res.StatusCode), zap.String("error", e.Error))
		return &StatusError{Code: res.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
