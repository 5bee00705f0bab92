package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SolPulse/internal/analysis"
	"SolPulse/internal/domain/models"
	domrepo "SolPulse/internal/domain/repository"
	"SolPulse/internal/scraper"
	"SolPulse/internal/service/sentiment"
	"SolPulse/pkg/logger"
)

// Pipeline runs every source scraper concurrently, scores the results
// and feeds them to the prediction engine. A failed source is logged
// and dropped; the prediction is built from whatever arrived.
type Pipeline struct {
	scrapers  *scraper.Set
	engine    *analysis.Engine
	keywords  *analysis.KeywordScorer
	sentiment *sentiment.Client
	metrics   domrepo.Metrics
	log       *logger.Logger
	timeout   time.Duration
}

func NewPipeline(
	scrapers *scraper.Set,
	engine *analysis.Engine,
	keywords *analysis.KeywordScorer,
	sentiment *sentiment.Client,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		scrapers:  scrapers,
		engine:    engine,
		keywords:  keywords,
		sentiment: sentiment,
		metrics:   metrics,
		log:       log,
		timeout:   90 * time.Second,
	}
}

// RunResult carries the prediction plus the raw market snapshot so the
// caller can reuse it without another fetch.
type RunResult struct {
	Prediction *models.Prediction
	Price      *models.PriceSnapshot
	Errors     map[string]string
}

func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 9)
	var wg sync.WaitGroup

	fetch := func(name string, fn func(context.Context) (interface{}, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			v, err := fn(ctx)
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			p.metrics.RecordScrape(name, outcome, time.Since(start).Seconds())
			ch <- item{name, v, err}
		}()
	}

	fetch("price", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.Price.Snapshot(ctx)
	})
	fetch("candles", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.Price.GetCandles(ctx, "", domrepo.DefaultInterval(), 100)
	})
	fetch("fear_greed", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.FearGreed.Fetch(ctx)
	})
	fetch("onchain", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.Onchain.Fetch(ctx)
	})
	fetch("whales", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.Whales.Fetch(ctx)
	})
	fetch("news", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.News.Fetch(ctx)
	})
	fetch("reddit", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.Reddit.Fetch(ctx)
	})
	fetch("social", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.Social.Fetch(ctx)
	})
	fetch("youtube", func(ctx context.Context) (interface{}, error) {
		return p.scrapers.YouTube.Fetch(ctx)
	})

	go func() { wg.Wait(); close(ch) }()

	var (
		price   *models.PriceSnapshot
		candles []models.Candle
		fg      *models.FearGreed
		onchain *models.OnchainData
		whales  *models.WhaleActivity
		news    []models.NewsItem
		reddit  []models.RedditPost
		social  *models.SocialMetrics
		videos  []models.VideoItem
		errs    = map[string]string{}
	)

	for it := range ch {
		if it.err != nil {
			errs[it.name] = it.err.Error()
			p.log.Warn("source scrape failed",
				logger.String("source", it.name), logger.Error(it.err))
			continue
		}
		switch it.name {
		case "price":
			price = it.val.(*models.PriceSnapshot)
		case "candles":
			candles = it.val.([]models.Candle)
		case "fear_greed":
			fg = it.val.(*models.FearGreed)
		case "onchain":
			onchain = it.val.(*models.OnchainData)
		case "whales":
			whales = it.val.(*models.WhaleActivity)
		case "news":
			news = it.val.([]models.NewsItem)
		case "reddit":
			reddit = it.val.([]models.RedditPost)
		case "social":
			social = it.val.(*models.SocialMetrics)
		case "youtube":
			videos = it.val.([]models.VideoItem)
		}
	}

	signals := p.score(ctx, candles, fg, onchain, whales, news, reddit, social, videos)
	if len(signals) == 0 {
		return nil, fmt.Errorf("pipeline: all sources failed")
	}

	pred := p.engine.Predict(time.Now(), signals)
	if price != nil {
		pred.CurrentPriceUSD = price.PriceUSD
		pred.PriceChange24hPct = price.PriceChange24hPct
	}

	if len(errs) == 0 {
		errs = nil
	}
	return &RunResult{Prediction: pred, Price: price, Errors: errs}, nil
}

func (p *Pipeline) score(
	ctx context.Context,
	candles []models.Candle,
	fg *models.FearGreed,
	onchain *models.OnchainData,
	whales *models.WhaleActivity,
	news []models.NewsItem,
	reddit []models.RedditPost,
	social *models.SocialMetrics,
	videos []models.VideoItem,
) map[string]analysis.SignalInput {
	signals := make(map[string]analysis.SignalInput)

	if len(candles) > 0 {
		s, d := analysis.TechnicalScore(candles)
		signals[string(models.SignalTechnical)] = analysis.SignalInput{Score: s, Description: d}
	}
	if fg != nil {
		s, d := analysis.FearGreedScore(fg)
		signals[string(models.SignalFearGreed)] = analysis.SignalInput{Score: s, Description: d}
	}
	if onchain != nil {
		s, d := analysis.OnchainScore(onchain)
		signals[string(models.SignalOnchain)] = analysis.SignalInput{Score: s, Description: d}
	}
	if whales != nil {
		s, d := analysis.WhalesScore(whales)
		signals[string(models.SignalWhales)] = analysis.SignalInput{Score: s, Description: d}
	}
	if len(news) > 0 {
		s, d := analysis.NewsScore(news, p.keywords)
		if p.sentiment != nil {
			titles := make([]string, len(news))
			for i, it := range news {
				titles[i] = it.Title
			}
			if svc, err := p.sentiment.ScoreTexts(ctx, titles); err == nil {
				s = svc
				d += " (nlp)"
			} else {
				p.log.Warn("sentiment service failed, using keywords", logger.Error(err))
			}
		}
		signals[string(models.SignalNews)] = analysis.SignalInput{Score: s, Description: d}
	}
	if social != nil || len(reddit) > 0 {
		signals[string(models.SignalSocial)] = p.socialSignal(social, reddit)
	}
	if len(videos) > 0 {
		s, d := analysis.YouTubeScore(videos, p.keywords)
		signals[string(models.SignalYouTube)] = analysis.SignalInput{Score: s, Description: d}
	}

	return signals
}

// socialSignal blends LunarCrush metrics with Reddit keyword sentiment
// into one social score. Either half can be missing.
func (p *Pipeline) socialSignal(social *models.SocialMetrics, reddit []models.RedditPost) analysis.SignalInput {
	var sum float64
	var parts int
	var desc string

	if social != nil {
		s, d := analysis.SocialScore(social)
		sum += s
		parts++
		desc = d
	}
	if len(reddit) > 0 {
		s, d := analysis.RedditScore(reddit, p.keywords)
		sum += s
		parts++
		if desc != "" {
			desc += "; "
		}
		desc += d
	}

	if parts == 0 {
		return analysis.SignalInput{}
	}
	return analysis.SignalInput{Score: sum / float64(parts), Description: desc}
}
