package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/internal/domain/repository"
	"SolPulse/pkg/logger"
)

// PriceScraper pulls spot market data from CoinGecko and Binance.
type PriceScraper struct {
	f          *fetcher
	geckoURL   string
	geckoKey   string
	binanceURL string
	coinID     string
	symbol     string
	log        *logger.Logger
}

type geckoMarket struct {
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	MarketCapRank            *int     `json:"market_cap_rank"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  *float64 `json:"price_change_percentage_7d_in_currency"`
	ATH                      *float64 `json:"ath"`
	ATHChangePercentage      *float64 `json:"ath_change_percentage"`
}

// Snapshot fetches the CoinGecko market snapshot for the tracked coin.
func (s *PriceScraper) Snapshot(ctx context.Context) (*models.PriceSnapshot, error) {
	var markets []geckoMarket
	params := map[string][]string{
		"vs_currency":             {"usd"},
		"ids":                     {s.coinID},
		"price_change_percentage": {"7d"},
	}
	var headers map[string]string
	if s.geckoKey != "" {
		headers = map[string]string{"x-cg-demo-api-key": s.geckoKey}
	}

	url := s.geckoURL + "/coins/markets"
	if err := s.f.getJSON(ctx, url, params, headers, &markets); err != nil {
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}
	if len(markets) == 0 {
		return nil, fmt.Errorf("coingecko markets: no data for %s", s.coinID)
	}

	m := markets[0]
	return &models.PriceSnapshot{
		Source:            "coingecko",
		Timestamp:         time.Now().UTC(),
		PriceUSD:          m.CurrentPrice,
		MarketCapUSD:      m.MarketCap,
		MarketCapRank:     m.MarketCapRank,
		TotalVolumeUSD:    m.TotalVolume,
		PriceChange24hPct: m.PriceChangePercentage24h,
		PriceChange7dPct:  m.PriceChangePercentage7d,
		ATHUSD:            m.ATH,
		ATHChangePct:      m.ATHChangePercentage,
	}, nil
}

type binanceTicker24h struct {
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	QuoteVolume        string `json:"quoteVolume"`
	Count              int64  `json:"count"`
}

// Ticker fetches the Binance 24h rolling ticker for the tracked symbol.
func (s *PriceScraper) Ticker(ctx context.Context) (*models.BinanceTicker, error) {
	var raw binanceTicker24h
	params := map[string][]string{"symbol": {s.symbol}}
	if err := s.f.getJSON(ctx, s.binanceURL+"/api/v3/ticker/24hr", params, nil, &raw); err != nil {
		return nil, fmt.Errorf("binance ticker: %w", err)
	}

	t := &models.BinanceTicker{
		LastPrice:   parsePrice(raw.LastPrice),
		ChangePct:   parsePrice(raw.PriceChangePercent),
		HighPrice:   parsePrice(raw.HighPrice),
		LowPrice:    parsePrice(raw.LowPrice),
		QuoteVolume: parsePrice(raw.QuoteVolume),
	}
	if raw.Count > 0 {
		t.TradeCount = &raw.Count
	}
	return t, nil
}

// GetCandles fetches klines for technical analysis.
// Implements repository.CandleSource.
func (s *PriceScraper) GetCandles(ctx context.Context, symbol string, iv repository.Interval, limit int) ([]models.Candle, error) {
	if symbol == "" {
		symbol = s.symbol
	}
	if limit <= 0 {
		limit = 100
	}

	var rows [][]json.RawMessage
	params := map[string][]string{
		"symbol":   {symbol},
		"interval": {string(iv)},
		"limit":    {strconv.Itoa(limit)},
	}
	if err := s.f.getJSON(ctx, s.binanceURL+"/api/v3/klines", params, nil, &rows); err != nil {
		return nil, fmt.Errorf("binance klines: %w", err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}
		var openMs int64
		if err := json.Unmarshal(row[0], &openMs); err != nil {
			continue
		}
		c := models.Candle{OpenTime: time.UnixMilli(openMs).UTC()}
		fields := []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume}
		ok := true
		for i, dst := range fields {
			var str string
			if err := json.Unmarshal(row[i+1], &str); err != nil {
				ok = false
				break
			}
			v, err := strconv.ParseFloat(str, 64)
			if err != nil {
				ok = false
				break
			}
			*dst = v
		}
		if ok {
			candles = append(candles, c)
		}
	}
	return candles, nil
}

// LastPrice fetches the current spot price for an arbitrary symbol.
func (s *PriceScraper) LastPrice(ctx context.Context, symbol string) (float64, error) {
	var raw struct {
		Price string `json:"price"`
	}
	params := map[string][]string{"symbol": {symbol}}
	if err := s.f.getJSON(ctx, s.binanceURL+"/api/v3/ticker/price", params, nil, &raw); err != nil {
		return 0, fmt.Errorf("binance price: %w", err)
	}
	p, err := strconv.ParseFloat(raw.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("binance price parse: %w", err)
	}
	return p, nil
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
