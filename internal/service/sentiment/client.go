package sentiment

import (
	"context"
	"fmt"
	"time"

	"SolPulse/pkg/config"
	xhttp "SolPulse/pkg/http"
)

// Client calls an external NLP sentiment service. When the service is
// not configured the pipeline falls back to keyword scoring.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

// NewClient returns nil when no service URL is configured.
func NewClient(cfg *config.Config) *Client {
	if cfg.Sentiment.ServiceURL == "" {
		return nil
	}
	timeout := cfg.Sentiment.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: cfg.Sentiment.ServiceURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type scoreRequest struct {
	Texts []string `json:"texts"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// ScoreTexts returns an aggregate sentiment score in [-1, 1].
func (c *Client) ScoreTexts(ctx context.Context, texts []string) (float64, error) {
	if c == nil || c.client == nil {
		return 0, fmt.Errorf("sentiment client not initialized")
	}

	var resp scoreResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     c.baseURL + "/score",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    scoreRequest{Texts: texts},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("score texts: %w", err)
	}

	if resp.Score < -1 || resp.Score > 1 {
		return 0, fmt.Errorf("score out of range: %f", resp.Score)
	}
	return resp.Score, nil
}
