package analysis

import (
	"testing"

	"SolPulse/internal/domain/models"
)

func candlesFromCloses(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func TestRSIInsufficientData(t *testing.T) {
	if got := RSI(candlesFromCloses([]float64{1, 2, 3}), 14); got != 50 {
		t.Fatalf("expected neutral 50, got %v", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := RSI(candlesFromCloses(closes), 14); got != 100 {
		t.Fatalf("monotonic rise must give RSI 100, got %v", got)
	}
}

func TestRSIRange(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.3, 46.1, 46.7, 46.5, 46.3, 46.0, 46.6, 46.2, 46.4}
	got := RSI(candlesFromCloses(closes), 14)
	if got <= 0 || got >= 100 {
		t.Fatalf("rsi out of range: %v", got)
	}
	if got < 50 {
		t.Fatalf("uptrending series should score above 50, got %v", got)
	}
}

func TestEMAShortSeriesFallsBack(t *testing.T) {
	if got := EMA([]float64{10, 20}, 5); got != 20 {
		t.Fatalf("short series must return last price, got %v", got)
	}
	if got := EMA(nil, 5); got != 0 {
		t.Fatalf("empty series must return 0, got %v", got)
	}
}

func TestEMATracksTrend(t *testing.T) {
	up := make([]float64, 50)
	for i := range up {
		up[i] = 100 + float64(i)
	}
	ema := EMA(up, 20)
	if ema <= 100 || ema >= up[len(up)-1] {
		t.Fatalf("ema must lag inside the trend, got %v", ema)
	}
}

func TestBollingerBands(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
	}
	closes[29] = 110
	upper, middle, lower := Bollinger(candlesFromCloses(closes), 20, 2)
	if !(lower < middle && middle < upper) {
		t.Fatalf("band order wrong: %v %v %v", lower, middle, upper)
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	upper, middle, lower := Bollinger(candlesFromCloses(closes), 20, 2)
	if upper != 100 || middle != 100 || lower != 100 {
		t.Fatalf("flat series must collapse bands: %v %v %v", upper, middle, lower)
	}
}

func TestVolatilityFlatVsNoisy(t *testing.T) {
	flat := make([]float64, 30)
	noisy := make([]float64, 30)
	for i := range flat {
		flat[i] = 100
		if i%2 == 0 {
			noisy[i] = 90
		} else {
			noisy[i] = 110
		}
	}
	if v := Volatility(candlesFromCloses(flat)); v != 0 {
		t.Fatalf("flat volatility %v", v)
	}
	if v := Volatility(candlesFromCloses(noisy)); v <= 0 {
		t.Fatalf("noisy volatility %v", v)
	}
}
