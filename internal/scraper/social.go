package scraper

import (
	"context"
	"fmt"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/logger"
)

// SocialScraper reads aggregate social metrics from LunarCrush.
type SocialScraper struct {
	f      *fetcher
	url    string
	apiKey string
	coinID string
	log    *logger.Logger
}

type lunarCrushCoin struct {
	Data struct {
		GalaxyScore     *float64 `json:"galaxy_score"`
		AltRank         *int     `json:"alt_rank"`
		Sentiment       *float64 `json:"sentiment"`
		SocialVolume    *float64 `json:"social_volume_24h"`
		Interactions    *float64 `json:"interactions_24h"`
		SocialDominance *float64 `json:"social_dominance"`
	} `json:"data"`
}

// Fetch pulls the coin's current social metrics. Requires an API key.
func (s *SocialScraper) Fetch(ctx context.Context) (*models.SocialMetrics, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("lunarcrush: api key not configured")
	}

	var raw lunarCrushCoin
	url := fmt.Sprintf("%s/public/coins/%s/v1", s.url, s.coinID)
	headers := map[string]string{"Authorization": "Bearer " + s.apiKey}
	if err := s.f.getJSON(ctx, url, nil, headers, &raw); err != nil {
		return nil, fmt.Errorf("lunarcrush coin: %w", err)
	}

	return &models.SocialMetrics{
		Source:          "lunarcrush",
		Timestamp:       time.Now().UTC(),
		GalaxyScore:     raw.Data.GalaxyScore,
		AltRank:         raw.Data.AltRank,
		SentimentPct:    raw.Data.Sentiment,
		SocialVolume:    raw.Data.SocialVolume,
		Interactions:    raw.Data.Interactions,
		SocialDominance: raw.Data.SocialDominance,
	}, nil
}
