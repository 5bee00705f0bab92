package analysis

import (
	"fmt"
	"strings"

	"SolPulse/internal/domain/models"
)

// TechnicalScore condenses RSI, MACD, EMA alignment and Bollinger
// position into a single score in [-1, 1] with a human summary.
func TechnicalScore(candles []models.Candle) (float64, string) {
	if len(candles) < 30 {
		return 0, "insufficient candle data"
	}

	last := candles[len(candles)-1].Close
	var score float64
	var notes []string

	rsi := RSI(candles, 14)
	switch {
	case rsi <= 30:
		score += 0.35
		notes = append(notes, fmt.Sprintf("RSI oversold (%.0f)", rsi))
	case rsi <= 40:
		score += 0.15
		notes = append(notes, fmt.Sprintf("RSI low (%.0f)", rsi))
	case rsi >= 70:
		score -= 0.35
		notes = append(notes, fmt.Sprintf("RSI overbought (%.0f)", rsi))
	case rsi >= 60:
		score -= 0.15
		notes = append(notes, fmt.Sprintf("RSI high (%.0f)", rsi))
	default:
		notes = append(notes, fmt.Sprintf("RSI neutral (%.0f)", rsi))
	}

	_, _, hist := MACD(candles, 12, 26, 9)
	if hist > 0 {
		score += 0.25
		notes = append(notes, "MACD bullish")
	} else if hist < 0 {
		score -= 0.25
		notes = append(notes, "MACD bearish")
	}

	closes := Closes(candles)
	ema20 := EMA(closes, 20)
	ema50 := EMA(closes, 50)
	if last > ema20 && ema20 > ema50 {
		score += 0.25
		notes = append(notes, "uptrend (price > EMA20 > EMA50)")
	} else if last < ema20 && ema20 < ema50 {
		score -= 0.25
		notes = append(notes, "downtrend (price < EMA20 < EMA50)")
	}

	upper, _, lower := Bollinger(candles, 20, 2.0)
	if last <= lower {
		score += 0.15
		notes = append(notes, "price at lower Bollinger band")
	} else if last >= upper {
		score -= 0.15
		notes = append(notes, "price at upper Bollinger band")
	}

	return Clamp(score, -1, 1), strings.Join(notes, "; ")
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
