package repository

import (
	"context"

	"SolPulse/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.PriceTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, p *models.Prediction) error
	Close() error
}

// HistoryStore persists prediction records and their eventual outcomes.
type HistoryStore interface {
	Init(ctx context.Context) error // ensure tables / files, health checks
	Append(ctx context.Context, rec *models.PredictionRecord) (int64, error)
	Recent(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	Unchecked(ctx context.Context) ([]*models.PredictionRecord, error)
	MarkChecked(ctx context.Context, rec *models.PredictionRecord) error
	Summary(ctx context.Context) (*models.AccuracySummary, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Notifier delivers a finished prediction to subscribed channels.
type Notifier interface {
	Notify(ctx context.Context, p *models.Prediction) error
}

type Metrics interface {
	RecordRun(outcome string, seconds float64)
	RecordScrape(source, outcome string, seconds float64)
	RecordPrediction(direction string, confidence float64)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
