package render

import (
	"testing"
	"time"

	models "SolPulse/internal/domain/models"
)

func f64(v float64) *float64 { return &v }

func TestFearGreedLevelBuckets(t *testing.T) {
	cases := []struct {
		value int
		want  GaugeLevel
	}{
		{0, LevelExtremeFear},
		{25, LevelExtremeFear},
		{26, LevelFear},
		{45, LevelFear},
		{46, LevelNeutral},
		{55, LevelNeutral},
		{56, LevelGreed},
		{75, LevelGreed},
		{76, LevelExtremeGreed},
		{100, LevelExtremeGreed},
	}
	for _, c := range cases {
		if got := FearGreedLevel(c.value); got != c.want {
			t.Fatalf("value %d: got %s want %s", c.value, got, c.want)
		}
	}
}

func TestFearGreedGaugeMissingValue(t *testing.T) {
	v := FearGreedGauge(nil)
	if v.Value != Placeholder || v.Classification != Placeholder {
		t.Fatalf("expected placeholders, got %+v", v)
	}
	v = FearGreedGauge(&models.FearGreed{Classification: "Greed"})
	if v.Value != Placeholder || v.Classification != "Greed" {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestNeedlePositionClamp(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{-1, 2},
		{1, 98},
		{0, 50},
		{0.5, 75},
		{-0.5, 25},
	}
	for _, c := range cases {
		if got := NeedlePosition(c.score); got != c.want {
			t.Fatalf("score %v: got %v want %v", c.score, got, c.want)
		}
	}
}

func TestClassifyScoreDeadZone(t *testing.T) {
	if ClassifyScore(0.021) != ToneBullish {
		t.Fatalf("0.021 should be bullish")
	}
	if ClassifyScore(-0.021) != ToneBearish {
		t.Fatalf("-0.021 should be bearish")
	}
	for _, s := range []float64{0, 0.02, -0.02, 0.01} {
		if ClassifyScore(s) != ToneNeutral {
			t.Fatalf("%v should be neutral", s)
		}
	}
}

func TestSignalBarsSortedByMagnitude(t *testing.T) {
	bars := SignalBars(map[string]float64{
		"technical": 0.2,
		"news":      -0.8,
		"whales":    0.5,
	})
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Key != "news" || bars[1].Key != "whales" || bars[2].Key != "technical" {
		t.Fatalf("wrong order: %s %s %s", bars[0].Key, bars[1].Key, bars[2].Key)
	}
	if bars[0].Width != 40 {
		t.Fatalf("news width: got %v want 40", bars[0].Width)
	}
	if bars[0].Tone != ToneBearish || bars[1].Tone != ToneBullish {
		t.Fatalf("wrong tones: %s %s", bars[0].Tone, bars[1].Tone)
	}
}

func TestSignalBarsUnknownKeyFallback(t *testing.T) {
	bars := SignalBars(map[string]float64{"astrology": 0.3})
	if bars[0].Glyph != "•" || bars[0].Label != "astrology" {
		t.Fatalf("unexpected fallback: glyph=%q label=%q", bars[0].Glyph, bars[0].Label)
	}
}

func TestBarWidthClamped(t *testing.T) {
	if w := BarWidth(1); w != 50 {
		t.Fatalf("got %v want 50", w)
	}
	if w := BarWidth(-1.5); w != 50 {
		t.Fatalf("out-of-domain score: got %v want 50", w)
	}
	if w := BarWidth(0); w != 0 {
		t.Fatalf("got %v want 0", w)
	}
}

func TestTopFactorRowsTruncatesToFive(t *testing.T) {
	p := &models.Prediction{}
	for i := 0; i < 8; i++ {
		p.TopFactors = append(p.TopFactors, models.Factor{
			Source:      "news",
			Score:       float64(8 - i),
			Description: "factor",
		})
	}
	rows := TopFactorRows(p)
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if r.Rank != i+1 {
			t.Fatalf("row %d: rank %d", i, r.Rank)
		}
	}
}

func TestTopFactorRowsDirectionPrecedence(t *testing.T) {
	p := &models.Prediction{TopFactors: []models.Factor{
		{Direction: "bearish", Score: 0.9},
		{Score: -0.4},
		{Score: 0},
	}}
	rows := TopFactorRows(p)
	if rows[0].Tone != ToneBearish {
		t.Fatalf("explicit direction should win, got %s", rows[0].Tone)
	}
	if rows[1].Tone != ToneBearish {
		t.Fatalf("negative score should be bearish, got %s", rows[1].Tone)
	}
	if rows[2].Tone != ToneNeutral {
		t.Fatalf("zero score should be neutral, got %s", rows[2].Tone)
	}
}

func TestTopFactorRowsFallsBackToFactors(t *testing.T) {
	p := &models.Prediction{Factors: []models.Factor{{Description: "only", Score: 0.1}}}
	rows := TopFactorRows(p)
	if len(rows) != 1 || rows[0].Description != "only" {
		t.Fatalf("expected fallback to Factors, got %+v", rows)
	}
}

func TestHistoryRowsEmptyPlaceholder(t *testing.T) {
	rows := HistoryRows(nil, time.Now())
	if len(rows) != 1 || !rows[0].Placeholder {
		t.Fatalf("expected single placeholder row, got %+v", rows)
	}
}

func TestHistoryRowsOrderAndGlyphs(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	yes, no := true, false
	recs := []*models.PredictionRecord{
		{ID: 1, Timestamp: now.Add(-time.Minute), Direction: models.DirectionLong, WasCorrect: &yes},
		{ID: 2, Timestamp: now.Add(-2 * time.Hour), Direction: models.DirectionShort, WasCorrect: &no},
		{ID: 3, Timestamp: now.Add(-time.Hour), PriceAtPrediction: f64(180.5)},
	}
	rows := HistoryRows(recs, now)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Result != GlyphCorrect || rows[1].Result != GlyphIncorrect || rows[2].Result != GlyphPending {
		t.Fatalf("wrong glyphs: %s %s %s", rows[0].Result, rows[1].Result, rows[2].Result)
	}
	if rows[0].Direction != "LONG" || rows[1].Direction != "SHORT" {
		t.Fatalf("wrong directions: %s %s", rows[0].Direction, rows[1].Direction)
	}
	if rows[2].Direction != "N/A" {
		t.Fatalf("missing direction should render N/A, got %s", rows[2].Direction)
	}
	if rows[2].Price != "$180.50" {
		t.Fatalf("unexpected price %s", rows[2].Price)
	}
}

func TestAccuracyLinePrefersCheckedTriple(t *testing.T) {
	acc := 62.5
	got := AccuracyLine(&models.AccuracySummary{
		TotalPredictions: 30,
		Checked:          16,
		Correct:          10,
		OverallAccuracy:  &acc,
	})
	if got != "62.5% (10/16 checked)" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestAccuracyLineFallback(t *testing.T) {
	got := AccuracyLine(&models.AccuracySummary{TotalPredictions: 4})
	if got != "4 predictions logged, none checked yet" {
		t.Fatalf("unexpected line %q", got)
	}
	if AccuracyLine(nil) != Placeholder {
		t.Fatalf("nil summary should render placeholder")
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want string
	}{
		{now.Add(-30 * time.Second).Format(time.RFC3339), "just now"},
		{now.Add(-5 * time.Minute).Format(time.RFC3339), "5m ago"},
		{now.Add(-90 * time.Minute).Format(time.RFC3339), "1h ago"},
		{now.Add(-23 * time.Hour).Format(time.RFC3339), "23h ago"},
		{now.Add(-48 * time.Hour).Format(time.RFC3339), "May 30 12:00"},
		{"not-a-timestamp", "not-a-timestamp"},
	}
	for _, c := range cases {
		if got := RelativeTime(c.in, now); got != c.want {
			t.Fatalf("%q: got %q want %q", c.in, got, c.want)
		}
	}
}

func TestPriceLineZeroChangeIsPositive(t *testing.T) {
	qd := &models.QuickData{Price: &models.PriceData{CoinGecko: &models.PriceSnapshot{
		PriceUSD:          f64(182.34),
		PriceChange24hPct: f64(0),
	}}}
	v := PriceLine(qd)
	if v.Price != "$182.34" {
		t.Fatalf("unexpected price %q", v.Price)
	}
	if v.Change != "+0.00%" || !v.Positive {
		t.Fatalf("zero change should render positive, got %q positive=%v", v.Change, v.Positive)
	}
}

func TestPriceLineMissingData(t *testing.T) {
	v := PriceLine(nil)
	if v.Price != Placeholder || v.Change != Placeholder {
		t.Fatalf("expected placeholders, got %+v", v)
	}
}
