package scraper

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/logger"
)

// YouTubeScraper reads recent video titles from channel RSS feeds.
// The feed endpoint needs no API key.
type YouTubeScraper struct {
	f        *fetcher
	channels []string
	maxAge   time.Duration
	log      *logger.Logger
}

type ytFeed struct {
	Entries []struct {
		Title     string `xml:"title"`
		VideoID   string `xml:"videoId"`
		Published string `xml:"published"`
	} `xml:"entry"`
}

// Fetch collects recent uploads across all configured channels.
func (s *YouTubeScraper) Fetch(ctx context.Context) ([]models.VideoItem, error) {
	cutoff := time.Now().UTC().Add(-s.maxAge)

	var videos []models.VideoItem
	for _, ch := range s.channels {
		url := fmt.Sprintf("https://www.youtube.com/feeds/videos.xml?channel_id=%s", ch)
		body, err := s.f.getBytes(ctx, url, nil)
		if err != nil {
			s.log.Warn("youtube feed fetch failed",
				logger.String("channel", ch), logger.Error(err))
			continue
		}

		var feed ytFeed
		if err := xml.Unmarshal(body, &feed); err != nil {
			s.log.Warn("youtube feed parse failed",
				logger.String("channel", ch), logger.Error(err))
			continue
		}

		for _, e := range feed.Entries {
			published, err := time.Parse(time.RFC3339, e.Published)
			if err != nil || published.Before(cutoff) {
				continue
			}
			videos = append(videos, models.VideoItem{
				Title:       e.Title,
				ChannelID:   ch,
				VideoID:     e.VideoID,
				PublishedAt: published.UTC(),
			})
		}
	}

	return videos, nil
}
