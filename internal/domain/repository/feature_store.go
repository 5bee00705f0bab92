package repository

import (
	"context"

	"SolPulse/internal/domain/models"
)

// Interval represents candle resolution buckets used for analysis.
type Interval string

const (
	IV15m Interval = "15m"
	IV1h  Interval = "1h"
	IV4h  Interval = "4h"
	IV1d  Interval = "1d"
)

// CandleSource provides read-only access to klines for technical analysis.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol string, iv Interval, limit int) ([]models.Candle, error)
}
