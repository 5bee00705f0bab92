package scraper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/logger"
)

// FearGreedScraper reads the crypto Fear & Greed index from alternative.me.
type FearGreedScraper struct {
	f   *fetcher
	url string
	log *logger.Logger
}

type fngResponse struct {
	Data []struct {
		Value          string `json:"value"`
		Classification string `json:"value_classification"`
		Timestamp      string `json:"timestamp"`
	} `json:"data"`
}

// Fetch pulls the last 30 days of the index and derives trend averages.
func (s *FearGreedScraper) Fetch(ctx context.Context) (*models.FearGreed, error) {
	var raw fngResponse
	params := map[string][]string{"limit": {"30"}}
	if err := s.f.getJSON(ctx, s.url, params, nil, &raw); err != nil {
		return nil, fmt.Errorf("fear & greed index: %w", err)
	}
	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("fear & greed index: empty response")
	}

	fg := &models.FearGreed{
		Source:    "alternative.me",
		Timestamp: time.Now().UTC(),
	}

	var sum7, sum30 float64
	var n7, n30 int
	for i, d := range raw.Data {
		v, err := strconv.Atoi(d.Value)
		if err != nil {
			continue
		}
		ts, _ := strconv.ParseInt(d.Timestamp, 10, 64)
		fg.History = append(fg.History, models.FearGreedPoint{
			Value:          v,
			Classification: d.Classification,
			Date:           time.Unix(ts, 0).UTC().Format("2006-01-02"),
		})
		if i == 0 {
			val := v
			fg.CurrentValue = &val
			fg.Classification = d.Classification
		}
		if i < 7 {
			sum7 += float64(v)
			n7++
		}
		sum30 += float64(v)
		n30++
	}

	if fg.CurrentValue == nil {
		return nil, fmt.Errorf("fear & greed index: no parseable values")
	}
	if n7 > 0 {
		fg.Avg7d = sum7 / float64(n7)
	}
	if n30 > 0 {
		fg.Avg30d = sum30 / float64(n30)
	}

	switch cur := float64(*fg.CurrentValue); {
	case cur > fg.Avg7d+3:
		fg.Trend = "rising"
	case cur < fg.Avg7d-3:
		fg.Trend = "falling"
	default:
		fg.Trend = "stable"
	}

	return fg, nil
}
