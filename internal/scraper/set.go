package scraper

import (
	"time"

	"SolPulse/pkg/config"
	"SolPulse/pkg/logger"
)

// Set bundles all source scrapers behind a single shared transport, so
// the pipeline can fan out over them with one rate limit budget.
type Set struct {
	Price     *PriceScraper
	FearGreed *FearGreedScraper
	Onchain   *OnchainScraper
	Whales    *WhaleScraper
	News      *NewsScraper
	Reddit    *RedditScraper
	Social    *SocialScraper
	YouTube   *YouTubeScraper
}

// NewSet builds the scraper set from configuration.
func NewSet(cfg *config.Config, log *logger.Logger) *Set {
	f := newFetcher(cfg.Sources.RequestTimeout, cfg.Sources.MaxRPS, log)

	maxAge := time.Duration(cfg.Sources.MaxAgeHours) * time.Hour
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	return &Set{
		Price: &PriceScraper{
			f:          f,
			geckoURL:   cfg.Sources.CoinGeckoURL,
			geckoKey:   cfg.Sources.CoinGeckoAPIKey,
			binanceURL: cfg.Sources.BinanceURL,
			coinID:     cfg.Tracker.CoinID,
			symbol:     cfg.Tracker.Symbol,
			log:        log,
		},
		FearGreed: &FearGreedScraper{
			f:   f,
			url: cfg.Sources.FearGreedURL,
			log: log,
		},
		Onchain: &OnchainScraper{
			f:          f,
			llamaURL:   cfg.Sources.DefiLlamaURL,
			llamaChain: cfg.Sources.DefiLlamaChain,
			dexURL:     cfg.Sources.DexScreenerURL,
			dexChain:   cfg.Sources.DexScreenerChain,
			coinID:     cfg.Tracker.CoinID,
			log:        log,
		},
		Whales: &WhaleScraper{
			f:          f,
			binanceURL: cfg.Sources.BinanceURL,
			symbol:     cfg.Tracker.Symbol,
			log:        log,
		},
		News: &NewsScraper{
			f:      f,
			feeds:  cfg.Sources.NewsFeeds,
			maxAge: maxAge,
			log:    log,
		},
		Reddit: &RedditScraper{
			f:          f,
			subreddits: cfg.Sources.Subreddits,
			maxAge:     maxAge,
			log:        log,
		},
		Social: &SocialScraper{
			f:      f,
			url:    cfg.Sources.LunarCrushURL,
			apiKey: cfg.Sources.LunarCrushAPIKey,
			coinID: cfg.Tracker.CoinID,
			log:    log,
		},
		YouTube: &YouTubeScraper{
			f:        f,
			channels: cfg.Sources.YouTubeChannels,
			maxAge:   maxAge,
			log:      log,
		},
	}
}
