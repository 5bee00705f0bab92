package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SolPulse/internal/domain/models"
	drepo "SolPulse/internal/domain/repository"
)

// LivePrices holds the newest tick per symbol from the exchange stream.
type LivePrices struct {
	mu sync.RWMutex
	m  map[string]models.PriceTick
}

func NewLivePrices() *LivePrices {
	return &LivePrices{m: make(map[string]models.PriceTick)}
}

func (l *LivePrices) Update(t models.PriceTick) {
	l.mu.Lock()
	l.m[t.Symbol] = t
	l.mu.Unlock()
}

// Get returns the latest tick for a symbol along with its staleness.
func (l *LivePrices) Get(symbol string) (models.PriceTick, time.Duration, bool) {
	l.mu.RLock()
	t, ok := l.m[symbol]
	l.mu.RUnlock()
	if !ok {
		return models.PriceTick{}, 0, false
	}
	return t, time.Since(time.Unix(t.Timestamp, 0)), true
}

// TickProcessor applies stream ticks to the live price store.
type TickProcessor struct {
	prices  *LivePrices
	metrics drepo.Metrics
}

func NewTickProcessor(prices *LivePrices, metrics drepo.Metrics) *TickProcessor {
	return &TickProcessor{prices: prices, metrics: metrics}
}

func (p *TickProcessor) Process(ctx context.Context, t *models.PriceTick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}

	start := time.Now()
	p.prices.Update(*t)
	p.metrics.RecordLastPrice(t.Symbol, t.Price)
	p.metrics.RecordLatency("tick_process", time.Since(start).Seconds())
	return nil
}
