package scraper

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/logger"
)

// whaleNotionalUSD is the minimum trade size counted as whale activity.
const whaleNotionalUSD = 50_000

// WhaleScraper detects large trades on the tracked pair from the
// exchange aggregated trades feed.
type WhaleScraper struct {
	f          *fetcher
	binanceURL string
	symbol     string
	log        *logger.Logger
}

type aggTrade struct {
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	Timestamp    int64  `json:"T"`
	IsBuyerMaker bool   `json:"m"`
}

// Fetch scans the last hour of aggregated trades for whale-sized fills.
func (s *WhaleScraper) Fetch(ctx context.Context) (*models.WhaleActivity, error) {
	now := time.Now().UTC()
	start := now.Add(-time.Hour)

	var raw []aggTrade
	params := map[string][]string{
		"symbol":    {s.symbol},
		"startTime": {strconv.FormatInt(start.UnixMilli(), 10)},
		"endTime":   {strconv.FormatInt(now.UnixMilli(), 10)},
		"limit":     {"1000"},
	}
	if err := s.f.getJSON(ctx, s.binanceURL+"/api/v3/aggTrades", params, nil, &raw); err != nil {
		return nil, fmt.Errorf("binance aggTrades: %w", err)
	}

	out := &models.WhaleActivity{
		Source:    "binance",
		Timestamp: now,
		Window:    "1h",
	}

	for _, t := range raw {
		price, err1 := strconv.ParseFloat(t.Price, 64)
		qty, err2 := strconv.ParseFloat(t.Quantity, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		notional := price * qty
		if notional < whaleNotionalUSD {
			continue
		}

		// A maker-side buyer means the aggressor sold into the book.
		isBuy := !t.IsBuyerMaker
		out.Trades = append(out.Trades, models.WhaleTrade{
			Timestamp:   time.UnixMilli(t.Timestamp).UTC(),
			Price:       price,
			Quantity:    qty,
			NotionalUSD: notional,
			IsBuy:       isBuy,
		})
		if isBuy {
			out.BuyVolume += notional
		} else {
			out.SellVolume += notional
		}
		if notional > out.LargestUSD {
			out.LargestUSD = notional
		}
	}

	out.TradesCount = len(out.Trades)
	out.NetFlowUSD = out.BuyVolume - out.SellVolume
	return out, nil
}
