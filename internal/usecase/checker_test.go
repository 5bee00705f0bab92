package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"SolPulse/internal/domain/models"
)

type fixedPrice struct {
	price float64
	calls int
}

func (p *fixedPrice) LastPrice(ctx context.Context, symbol string) (float64, error) {
	p.calls++
	return p.price, nil
}

func pendingRecord(id int64, age time.Duration, dir models.Direction, priceAt float64) *models.PredictionRecord {
	p := priceAt
	return &models.PredictionRecord{
		ID:                id,
		Timestamp:         time.Now().UTC().Add(-age),
		Direction:         dir,
		PriceAtPrediction: &p,
		Timeframe:         "24h",
	}
}

func TestCheckPendingResolvesDueRecords(t *testing.T) {
	hist := &memHistory{}
	ctx := context.Background()

	// Due: LONG from 100, price now 110 -> correct.
	due := pendingRecord(0, 25*time.Hour, models.DirectionLong, 100)
	// Not due yet.
	fresh := pendingRecord(0, time.Hour, models.DirectionShort, 100)
	hist.Append(ctx, due)
	hist.Append(ctx, fresh)

	prices := &fixedPrice{price: 110}
	c := NewResultChecker(hist, prices, "SOLUSDT", 2.0, testLogger(t))
	if err := c.CheckPending(ctx); err != nil {
		t.Fatalf("check: %v", err)
	}

	if due.WasCorrect == nil || !*due.WasCorrect {
		t.Fatalf("due LONG with +10%% move must be correct: %+v", due)
	}
	if due.ActualChangePct == nil || *due.ActualChangePct != 10 {
		t.Fatalf("change pct %v", due.ActualChangePct)
	}
	if fresh.WasCorrect != nil {
		t.Fatalf("record inside its timeframe must stay pending")
	}
}

func TestCheckPendingFetchesPriceOnce(t *testing.T) {
	hist := &memHistory{}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		hist.Append(ctx, pendingRecord(0, 25*time.Hour, models.DirectionLong, 100))
	}

	prices := &fixedPrice{price: 105}
	c := NewResultChecker(hist, prices, "SOLUSDT", 2.0, testLogger(t))
	if err := c.CheckPending(ctx); err != nil {
		t.Fatalf("check: %v", err)
	}
	if prices.calls != 1 {
		t.Fatalf("price must be fetched once per sweep, got %d", prices.calls)
	}
}

func TestIsCorrectNeutralBand(t *testing.T) {
	c := NewResultChecker(&memHistory{}, &fixedPrice{}, "SOLUSDT", 2.0, testLogger(t))

	cases := []struct {
		dir    models.Direction
		change float64
		want   bool
	}{
		{models.DirectionLong, 0.5, true},
		{models.DirectionLong, -0.5, false},
		{models.DirectionShort, -0.5, true},
		{models.DirectionShort, 0.5, false},
		{models.DirectionNeutral, 1.9, true},
		{models.DirectionNeutral, 2.0, true},
		{models.DirectionNeutral, -2.0, true},
		{models.DirectionNeutral, 2.1, false},
		{models.DirectionUnknown, 5.0, false},
	}
	for _, tc := range cases {
		got := c.isCorrect(string(tc.dir), decimal.NewFromFloat(tc.change))
		if got != tc.want {
			t.Fatalf("%s %+v: got %v want %v", tc.dir, tc.change, got, tc.want)
		}
	}
}
