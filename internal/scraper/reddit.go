package scraper

import (
	"context"
	"fmt"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/logger"
)

// RedditScraper reads hot posts from the tracked subreddits through the
// public JSON listing endpoints.
type RedditScraper struct {
	f          *fetcher
	subreddits []string
	maxAge     time.Duration
	log        *logger.Logger
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title       string  `json:"title"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch collects recent posts across all configured subreddits.
func (s *RedditScraper) Fetch(ctx context.Context) ([]models.RedditPost, error) {
	cutoff := time.Now().UTC().Add(-s.maxAge)
	headers := map[string]string{"User-Agent": "solpulse/1.0"}

	var posts []models.RedditPost
	for _, sub := range s.subreddits {
		var listing redditListing
		url := fmt.Sprintf("https://www.reddit.com/r/%s/hot.json", sub)
		params := map[string][]string{"limit": {"50"}}
		if err := s.f.getJSON(ctx, url, params, headers, &listing); err != nil {
			s.log.Warn("reddit fetch failed",
				logger.String("subreddit", sub), logger.Error(err))
			continue
		}

		for _, child := range listing.Data.Children {
			created := time.Unix(int64(child.Data.CreatedUTC), 0).UTC()
			if created.Before(cutoff) {
				continue
			}
			posts = append(posts, models.RedditPost{
				Title:       child.Data.Title,
				Subreddit:   sub,
				Score:       child.Data.Score,
				NumComments: child.Data.NumComments,
				CreatedAt:   created,
			})
		}
	}

	return posts, nil
}
