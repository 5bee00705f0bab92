package analysis

import (
	"math"
	"testing"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/config"
)

func testEngine() *Engine {
	cfg := &config.Config{}
	cfg.Weights = map[string]float64{
		"technical":  0.25,
		"onchain":    0.15,
		"whales":     0.15,
		"news":       0.15,
		"social":     0.10,
		"fear_greed": 0.10,
		"youtube":    0.10,
	}
	cfg.Tracker.Timeframe = "24h"
	return NewEngine(cfg)
}

func TestPredictDirectionThresholds(t *testing.T) {
	e := testEngine()
	now := time.Now()

	cases := []struct {
		score float64
		want  models.Direction
	}{
		{0.5, models.DirectionLong},
		{0.16, models.DirectionLong},
		{0.15, models.DirectionNeutral},
		{0, models.DirectionNeutral},
		{-0.15, models.DirectionNeutral},
		{-0.16, models.DirectionShort},
		{-0.8, models.DirectionShort},
	}
	for _, c := range cases {
		p := e.Predict(now, map[string]SignalInput{"technical": {Score: c.score}})
		if p.Direction != c.want {
			t.Fatalf("score %v: got %s want %s", c.score, p.Direction, c.want)
		}
		// A single signal carries all the renormalized weight.
		if math.Abs(p.WeightedScore-c.score) > 1e-9 {
			t.Fatalf("score %v: weighted %v", c.score, p.WeightedScore)
		}
	}
}

func TestPredictRenormalizesWeights(t *testing.T) {
	e := testEngine()
	p := e.Predict(time.Now(), map[string]SignalInput{
		"technical": {Score: 0.4},
		"news":      {Score: 0.4},
	})
	// Only technical (0.25) and news (0.15) carry weight; both agree.
	if math.Abs(p.WeightedScore-0.4) > 1e-9 {
		t.Fatalf("weighted score %v, want 0.4", p.WeightedScore)
	}
	if p.Direction != models.DirectionLong {
		t.Fatalf("direction %s", p.Direction)
	}
}

func TestPredictIgnoresUnknownSignals(t *testing.T) {
	e := testEngine()
	p := e.Predict(time.Now(), map[string]SignalInput{
		"technical": {Score: 0.4},
		"astrology": {Score: -1},
	})
	if math.Abs(p.WeightedScore-0.4) > 1e-9 {
		t.Fatalf("unweighted signal leaked into score: %v", p.WeightedScore)
	}
}

func TestPredictConfidenceAgreement(t *testing.T) {
	e := testEngine()
	now := time.Now()

	full := e.Predict(now, map[string]SignalInput{
		"technical": {Score: 0.6},
		"news":      {Score: 0.6},
	})
	split := e.Predict(now, map[string]SignalInput{
		"technical": {Score: 0.6},
		"news":      {Score: -0.6},
	})
	if full.SignalAgreement != 1 {
		t.Fatalf("full agreement %v", full.SignalAgreement)
	}
	if split.SignalAgreement != 0.5 {
		t.Fatalf("split agreement %v", split.SignalAgreement)
	}
	if full.Confidence <= split.Confidence {
		t.Fatalf("agreement must raise confidence: full=%v split=%v", full.Confidence, split.Confidence)
	}
	if full.Confidence > 100 {
		t.Fatalf("confidence out of range %v", full.Confidence)
	}
}

func TestPredictFactorsSortedByContribution(t *testing.T) {
	e := testEngine()
	p := e.Predict(time.Now(), map[string]SignalInput{
		"technical":  {Score: 0.1, Description: "flat"},
		"news":       {Score: -0.9, Description: "bad news"},
		"fear_greed": {Score: 0.5, Description: "greedy"},
	})
	if len(p.Factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(p.Factors))
	}
	for i := 1; i < len(p.Factors); i++ {
		if math.Abs(p.Factors[i].Contribution) > math.Abs(p.Factors[i-1].Contribution) {
			t.Fatalf("factors not sorted by |contribution|")
		}
	}
	if p.Factors[0].Source != "news" || p.Factors[0].Direction != "bearish" {
		t.Fatalf("unexpected lead factor %+v", p.Factors[0])
	}
}

func TestPredictTopFactorsCapped(t *testing.T) {
	e := testEngine()
	signals := map[string]SignalInput{}
	for _, name := range []string{"technical", "onchain", "whales", "news", "social", "fear_greed", "youtube"} {
		signals[name] = SignalInput{Score: 0.3}
	}
	p := e.Predict(time.Now(), signals)
	if len(p.Factors) != 7 {
		t.Fatalf("expected 7 factors, got %d", len(p.Factors))
	}
	if len(p.TopFactors) != 5 {
		t.Fatalf("expected 5 top factors, got %d", len(p.TopFactors))
	}
}

func TestStrengthLabels(t *testing.T) {
	e := testEngine()
	cases := map[float64]string{
		80: "STRONG",
		75: "STRONG",
		60: "MODERATE",
		40: "WEAK",
		10: "VERY WEAK",
	}
	for conf, want := range cases {
		if got := e.strength(conf); got != want {
			t.Fatalf("confidence %v: got %s want %s", conf, got, want)
		}
	}
}
