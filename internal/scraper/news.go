package scraper

import (
	"context"
	"encoding/xml"
	"sort"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/config"
	"SolPulse/pkg/logger"
)

// NewsScraper pulls headlines from configured RSS feeds. A feed that
// fails to load is logged and skipped so one dead source cannot sink
// the news signal.
type NewsScraper struct {
	f      *fetcher
	feeds  []config.Feed
	maxAge time.Duration
	log    *logger.Logger
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
}

// Fetch loads all feeds and returns fresh items, newest first.
func (s *NewsScraper) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	cutoff := time.Now().UTC().Add(-s.maxAge)
	var items []models.NewsItem

	for _, feed := range s.feeds {
		body, err := s.f.getBytes(ctx, feed.URL, map[string]string{
			"Accept": "application/rss+xml, application/xml",
		})
		if err != nil {
			s.log.Warn("news feed fetch failed",
				logger.String("feed", feed.Name), logger.Error(err))
			continue
		}

		var doc rssDocument
		if err := xml.Unmarshal(body, &doc); err != nil {
			s.log.Warn("news feed parse failed",
				logger.String("feed", feed.Name), logger.Error(err))
			continue
		}

		for _, it := range doc.Channel.Items {
			if it.Title == "" {
				continue
			}
			published := parsePubDate(it.PubDate)
			if !published.IsZero() && published.Before(cutoff) {
				continue
			}
			items = append(items, models.NewsItem{
				Title:       it.Title,
				Link:        it.Link,
				Source:      feed.Name,
				PublishedAt: published,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	return items, nil
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

func parsePubDate(s string) time.Time {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
