package models

import "time"

// PriceSnapshot is the market snapshot consumed by the dashboard.
type PriceSnapshot struct {
	Source            string    `json:"source"`
	Timestamp         time.Time `json:"timestamp"`
	PriceUSD          *float64  `json:"price_usd,omitempty"`
	PriceBTC          *float64  `json:"price_btc,omitempty"`
	MarketCapUSD      *float64  `json:"market_cap_usd,omitempty"`
	MarketCapRank     *int      `json:"market_cap_rank,omitempty"`
	TotalVolumeUSD    *float64  `json:"total_volume_usd,omitempty"`
	PriceChange24hPct *float64  `json:"price_change_24h_pct,omitempty"`
	PriceChange7dPct  *float64  `json:"price_change_7d_pct,omitempty"`
	ATHUSD            *float64  `json:"ath_usd,omitempty"`
	ATHChangePct      *float64  `json:"ath_change_pct,omitempty"`
}

// BinanceTicker holds the 24h rolling ticker from the exchange.
type BinanceTicker struct {
	LastPrice   *float64 `json:"last_price,omitempty"`
	ChangePct   *float64 `json:"price_change_pct,omitempty"`
	HighPrice   *float64 `json:"high_price,omitempty"`
	LowPrice    *float64 `json:"low_price,omitempty"`
	QuoteVolume *float64 `json:"quote_volume,omitempty"`
	TradeCount  *int64   `json:"trade_count,omitempty"`
}

// PriceData bundles the REST price sources, keyed the way the dashboard
// API exposes them.
type PriceData struct {
	CoinGecko *PriceSnapshot `json:"coingecko,omitempty"`
	Binance   *BinanceTicker `json:"binance_ticker,omitempty"`
}

// FearGreedPoint is one historical index reading.
type FearGreedPoint struct {
	Value          int    `json:"value"`
	Classification string `json:"classification"`
	Date           string `json:"date"`
}

// FearGreed is the crypto Fear & Greed index view (0-100).
type FearGreed struct {
	Source         string           `json:"source"`
	Timestamp      time.Time        `json:"timestamp"`
	CurrentValue   *int             `json:"current_value,omitempty"`
	Classification string           `json:"classification,omitempty"`
	Avg7d          float64          `json:"avg_7d,omitempty"`
	Avg30d         float64          `json:"avg_30d,omitempty"`
	Trend          string           `json:"trend,omitempty"`
	History        []FearGreedPoint `json:"history,omitempty"`
}

// QuickData is the light market snapshot served without a pipeline run.
type QuickData struct {
	Price     *PriceData `json:"price,omitempty"`
	FearGreed *FearGreed `json:"fear_greed,omitempty"`
}

// Candle is one OHLCV bar used by technical analysis.
type Candle struct {
	OpenTime time.Time `json:"open_time"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   float64   `json:"volume"`
}

// PriceTick is one live trade from the exchange stream.
type PriceTick struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"t"` // unix seconds
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}
