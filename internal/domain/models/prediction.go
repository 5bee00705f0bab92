package models

import "time"

// Direction is the predicted price direction for the tracked coin.
type Direction string

const (
	DirectionLong    Direction = "LONG"
	DirectionShort   Direction = "SHORT"
	DirectionNeutral Direction = "NEUTRAL"
	DirectionUnknown Direction = "unknown"
)

// ParseDirection maps a server-provided string onto a known direction.
// Anything unrecognized collapses to DirectionUnknown; the server is an
// external collaborator and its vocabulary is not fully trusted.
func ParseDirection(s string) Direction {
	switch Direction(s) {
	case DirectionLong, DirectionShort, DirectionNeutral:
		return Direction(s)
	default:
		return DirectionUnknown
	}
}

// SignalCategory identifies one contributing data source.
type SignalCategory string

const (
	SignalTechnical SignalCategory = "technical"
	SignalOnchain   SignalCategory = "onchain"
	SignalWhales    SignalCategory = "whales"
	SignalNews      SignalCategory = "news"
	SignalSocial    SignalCategory = "social"
	SignalFearGreed SignalCategory = "fear_greed"
	SignalYouTube   SignalCategory = "youtube"
)

// KnownSignals lists the closed set of signal categories in weight order.
var KnownSignals = []SignalCategory{
	SignalTechnical, SignalOnchain, SignalWhales,
	SignalNews, SignalSocial, SignalFearGreed, SignalYouTube,
}

// Factor is one contributing signal in a prediction, ordered by influence.
type Factor struct {
	Source       string  `json:"source"`
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Direction    string  `json:"direction"` // bullish | bearish | neutral
	Description  string  `json:"description"`
}

// Prediction is one full output of the analysis pipeline.
type Prediction struct {
	Timestamp         time.Time          `json:"timestamp"`
	Direction         Direction          `json:"direction"`
	Confidence        float64            `json:"confidence"` // 0-100
	Strength          string             `json:"strength"`   // STRONG | MODERATE | WEAK | VERY WEAK
	WeightedScore     float64            `json:"weighted_score"`
	CurrentPriceUSD   *float64           `json:"current_price_usd,omitempty"`
	PriceChange24hPct *float64           `json:"price_change_24h_pct,omitempty"`
	Timeframe         string             `json:"timeframe"`
	SignalScores      map[string]float64 `json:"signal_scores"`
	SignalWeights     map[string]float64 `json:"signal_weights,omitempty"`
	Factors           []Factor           `json:"factors,omitempty"`
	TopFactors        []Factor           `json:"top_factors,omitempty"`
	SignalsBullish    int                `json:"signals_bullish"`
	SignalsBearish    int                `json:"signals_bearish"`
	SignalAgreement   float64            `json:"signal_agreement"`
}
