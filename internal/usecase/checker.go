package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domrepo "SolPulse/internal/domain/repository"
	"SolPulse/pkg/logger"
	"SolPulse/pkg/util"
)

// PriceAt returns the current spot price for a symbol.
type PriceSource interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
}

// ResultChecker resolves pending prediction records whose timeframe has
// elapsed by comparing the price then against the price now.
type ResultChecker struct {
	history    domrepo.HistoryStore
	prices     PriceSource
	symbol     string
	neutralPct decimal.Decimal
	log        *logger.Logger
}

func NewResultChecker(
	history domrepo.HistoryStore,
	prices PriceSource,
	symbol string,
	neutralBandPct float64,
	log *logger.Logger,
) *ResultChecker {
	if neutralBandPct <= 0 {
		neutralBandPct = 2.0
	}
	return &ResultChecker{
		history:    history,
		prices:     prices,
		symbol:     symbol,
		neutralPct: decimal.NewFromFloat(neutralBandPct),
		log:        log,
	}
}

// CheckPending walks unchecked records and marks the due ones.
func (c *ResultChecker) CheckPending(ctx context.Context) error {
	pending, err := c.history.Unchecked(ctx)
	if err != nil {
		return fmt.Errorf("load unchecked: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	now := time.Now().UTC()
	var price float64
	var priceLoaded bool

	for _, rec := range pending {
		horizon, err := util.ParseTimeframe(rec.Timeframe)
		if err != nil {
			c.log.Warn("record has invalid timeframe",
				logger.Int64("id", rec.ID), logger.String("timeframe", rec.Timeframe))
			continue
		}
		if now.Before(rec.Timestamp.Add(horizon)) {
			continue
		}
		if rec.PriceAtPrediction == nil || *rec.PriceAtPrediction <= 0 {
			continue
		}

		if !priceLoaded {
			price, err = c.prices.LastPrice(ctx, c.symbol)
			if err != nil {
				return fmt.Errorf("fetch current price: %w", err)
			}
			priceLoaded = true
		}

		then := decimal.NewFromFloat(*rec.PriceAtPrediction)
		nowPrice := decimal.NewFromFloat(price)
		changePct := nowPrice.Sub(then).Div(then).Mul(decimal.NewFromInt(100))

		correct := c.isCorrect(string(rec.Direction), changePct)
		change, _ := changePct.Round(4).Float64()
		checkedAt := now

		rec.PriceAfter = &price
		rec.ActualChangePct = &change
		rec.WasCorrect = &correct
		rec.CheckedAt = &checkedAt

		if err := c.history.MarkChecked(ctx, rec); err != nil {
			return fmt.Errorf("mark checked: %w", err)
		}

		c.log.Info("prediction resolved",
			logger.Int64("id", rec.ID),
			logger.String("direction", string(rec.Direction)),
			logger.Bool("correct", correct))
	}

	return nil
}

// isCorrect scores LONG by a positive move, SHORT by a negative move,
// and NEUTRAL by the move staying inside the neutral band.
func (c *ResultChecker) isCorrect(direction string, changePct decimal.Decimal) bool {
	switch direction {
	case "LONG":
		return changePct.IsPositive()
	case "SHORT":
		return changePct.IsNegative()
	case "NEUTRAL":
		return changePct.Abs().LessThanOrEqual(c.neutralPct)
	default:
		return false
	}
}
