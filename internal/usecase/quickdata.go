package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/scraper"
	"SolPulse/internal/service/cache"
	"SolPulse/pkg/logger"
)

const quickDataKey = "quickdata"

// QuickDataUseCase serves the light market snapshot without running the
// full pipeline. Results are cached so dashboard reloads do not hammer
// the upstream APIs.
type QuickDataUseCase struct {
	scrapers *scraper.Set
	cache    cache.BytesCache
	ttl      time.Duration
	log      *logger.Logger
}

func NewQuickDataUseCase(scrapers *scraper.Set, c cache.BytesCache, ttl time.Duration, log *logger.Logger) *QuickDataUseCase {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &QuickDataUseCase{scrapers: scrapers, cache: c, ttl: ttl, log: log}
}

// Get returns the snapshot, from cache when fresh. Individual source
// failures degrade the snapshot instead of failing it; only a fully
// empty result is an error.
func (uc *QuickDataUseCase) Get(ctx context.Context) (*models.QuickData, error) {
	if b, ok, err := uc.cache.GetBytes(quickDataKey); err == nil && ok {
		var qd models.QuickData
		if err := json.Unmarshal(b, &qd); err == nil {
			return &qd, nil
		}
	}

	qd := &models.QuickData{}
	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(3)
	go func() {
		defer wg.Done()
		snap, err := uc.scrapers.Price.Snapshot(ctx)
		if err != nil {
			uc.log.Warn("quick-data coingecko failed", logger.Error(err))
			return
		}
		mu.Lock()
		if qd.Price == nil {
			qd.Price = &models.PriceData{}
		}
		qd.Price.CoinGecko = snap
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		tick, err := uc.scrapers.Price.Ticker(ctx)
		if err != nil {
			uc.log.Warn("quick-data binance failed", logger.Error(err))
			return
		}
		mu.Lock()
		if qd.Price == nil {
			qd.Price = &models.PriceData{}
		}
		qd.Price.Binance = tick
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		fg, err := uc.scrapers.FearGreed.Fetch(ctx)
		if err != nil {
			uc.log.Warn("quick-data fear & greed failed", logger.Error(err))
			return
		}
		mu.Lock()
		qd.FearGreed = fg
		mu.Unlock()
	}()
	wg.Wait()

	if qd.Price == nil && qd.FearGreed == nil {
		return nil, errAllQuickSourcesFailed
	}

	if b, err := json.Marshal(qd); err == nil {
		if err := uc.cache.SetBytes(quickDataKey, b, uc.ttl); err != nil {
			uc.log.Warn("quick-data cache write failed", logger.Error(err))
		}
	}
	return qd, nil
}
