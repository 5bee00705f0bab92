package analysis

import (
	"math"

	"SolPulse/internal/domain/models"
)

// RSI computes the Wilder-smoothed relative strength index over closes.
// Returns 50 when there is not enough data to compute it.
func RSI(candles []models.Candle, period int) float64 {
	if len(candles) < period+1 {
		return 50.0
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := period + 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - change) / float64(period)
		}
	}

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// EMA computes the exponential moving average of a price series.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if len(prices) < period {
		return prices[len(prices)-1]
	}

	multiplier := 2.0 / float64(period+1)
	ema := prices[0]
	for i := 1; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}
	return ema
}

// MACD returns the MACD line, signal line and histogram for the closes.
func MACD(candles []models.Candle, fast, slow, signal int) (float64, float64, float64) {
	closes := Closes(candles)
	if len(closes) < slow+signal {
		return 0, 0, 0
	}

	macdLine := EMA(closes, fast) - EMA(closes, slow)

	history := make([]float64, 0, len(closes)-slow+1)
	for i := slow - 1; i < len(closes); i++ {
		window := closes[:i+1]
		history = append(history, EMA(window, fast)-EMA(window, slow))
	}

	signalLine := 0.0
	if len(history) >= signal {
		signalLine = EMA(history, signal)
	}

	return macdLine, signalLine, macdLine - signalLine
}

// Bollinger returns the upper, middle and lower bands over the closes.
func Bollinger(candles []models.Candle, period int, stdDev float64) (float64, float64, float64) {
	if len(candles) == 0 {
		return 0, 0, 0
	}
	if len(candles) < period {
		last := candles[len(candles)-1].Close
		return last, last, last
	}

	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	middle := sum / float64(period)

	var variance float64
	for i := len(candles) - period; i < len(candles); i++ {
		d := candles[i].Close - middle
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))

	return middle + sd*stdDev, middle, middle - sd*stdDev
}

// Volatility computes the standard deviation of close-to-close returns.
func Volatility(candles []models.Candle) float64 {
	if len(candles) < 20 {
		return 0
	}

	returns := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		if candles[i-1].Close == 0 {
			continue
		}
		returns = append(returns, (candles[i].Close-candles[i-1].Close)/candles[i-1].Close)
	}
	if len(returns) == 0 {
		return 0
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance)
}

// Closes extracts the close price series from candles.
func Closes(candles []models.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
