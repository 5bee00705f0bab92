package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	models "SolPulse/internal/domain/models"
	xhttp "SolPulse/pkg/http"
)

// ErrNotFound is returned when the server has no data for a view yet.
var ErrNotFound = errors.New("not found")

// envelope is the standard response wrapper used by the API.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the dashboard REST API.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(h *xhttp.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger requests a new analysis run.
func (c *Client) Trigger(ctx context.Context) (*models.TriggerResult, error) {
	var out models.TriggerResult
	if err := c.call(ctx, xhttp.MethodPost, "/api/trigger", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status fetches the current run state.
func (c *Client) Status(ctx context.Context) (*models.RunState, error) {
	var out models.RunState
	if err := c.call(ctx, xhttp.MethodGet, "/api/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QuickData fetches the light market snapshot.
func (c *Client) QuickData(ctx context.Context) (*models.QuickData, error) {
	var out models.QuickData
	if err := c.call(ctx, xhttp.MethodGet, "/api/quick-data", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Latest fetches the most recent prediction. Returns (nil, nil) when no
// prediction exists yet.
func (c *Client) Latest(ctx context.Context) (*models.Prediction, error) {
	var out models.Prediction
	err := c.call(ctx, xhttp.MethodGet, "/api/latest", nil, &out)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches the most recent prediction records.
func (c *Client) History(ctx context.Context, limit int) ([]*models.PredictionRecord, error) {
	var params map[string][]string
	if limit > 0 {
		params = map[string][]string{"limit": {strconv.Itoa(limit)}}
	}
	var out []*models.PredictionRecord
	if err := c.call(ctx, xhttp.MethodGet, "/api/history", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Accuracy fetches the rolling accuracy summary.
func (c *Client) Accuracy(ctx context.Context) (*models.AccuracySummary, error) {
	var out models.AccuracySummary
	if err := c.call(ctx, xhttp.MethodGet, "/api/accuracy", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) call(ctx context.Context, method, path string, params map[string][]string, dest interface{}) error {
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      method,
		URL:         c.baseURL + path,
		QueryParams: params,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	// The API writes HTTP 200 on every envelope; the effective status
	// lives in the body.
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if env.Status == http.StatusNotFound {
		return ErrNotFound
	}
	if env.Status >= 400 {
		return fmt.Errorf("%s %s: %s (status %d)", method, path, env.Message, env.Status)
	}
	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
