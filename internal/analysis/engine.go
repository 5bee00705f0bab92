package analysis

import (
	"math"
	"sort"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/config"
)

// Direction thresholds on the weighted score. Inside the band the call
// is NEUTRAL.
const directionThreshold = 0.15

// factorDeadZone is the score band treated as neutral per signal.
const factorDeadZone = 0.05

// SignalInput is one scored source entering the engine.
type SignalInput struct {
	Score       float64
	Description string
}

// Engine combines per-source scores into a directional prediction.
type Engine struct {
	weights   map[string]float64
	confHigh  float64
	confMed   float64
	confLow   float64
	timeframe string
}

func NewEngine(cfg *config.Config) *Engine {
	e := &Engine{
		weights:   cfg.Weights,
		confHigh:  cfg.Confidence.High,
		confMed:   cfg.Confidence.Medium,
		confLow:   cfg.Confidence.Low,
		timeframe: cfg.TrackerTimeframe(),
	}
	if e.confHigh == 0 {
		e.confHigh = 75
	}
	if e.confMed == 0 {
		e.confMed = 50
	}
	if e.confLow == 0 {
		e.confLow = 30
	}
	return e
}

// Predict computes the weighted score, direction, confidence and factor
// breakdown for the given signals. Sources absent from the input simply
// carry no weight; the remaining weights are renormalized.
func (e *Engine) Predict(now time.Time, signals map[string]SignalInput) *models.Prediction {
	var weightSum, weighted float64
	for name, sig := range signals {
		w, ok := e.weights[name]
		if !ok || w <= 0 {
			continue
		}
		weightSum += w
		weighted += w * sig.Score
	}

	var score float64
	if weightSum > 0 {
		score = weighted / weightSum
	}

	direction := models.DirectionNeutral
	if score > directionThreshold {
		direction = models.DirectionLong
	} else if score < -directionThreshold {
		direction = models.DirectionShort
	}

	var bullish, bearish int
	for _, sig := range signals {
		if sig.Score > factorDeadZone {
			bullish++
		} else if sig.Score < -factorDeadZone {
			bearish++
		}
	}

	agreement := 0.0
	if total := bullish + bearish; total > 0 {
		agreement = math.Max(float64(bullish), float64(bearish)) / float64(total)
	}

	confidence := math.Min(100, math.Abs(score)*100*(0.7+0.3*agreement))

	p := &models.Prediction{
		Timestamp:       now.UTC(),
		Direction:       direction,
		Confidence:      confidence,
		Strength:        e.strength(confidence),
		WeightedScore:   score,
		Timeframe:       e.timeframe,
		SignalScores:    make(map[string]float64, len(signals)),
		SignalWeights:   make(map[string]float64, len(signals)),
		SignalsBullish:  bullish,
		SignalsBearish:  bearish,
		SignalAgreement: agreement,
	}

	for name, sig := range signals {
		p.SignalScores[name] = sig.Score
		w := e.weights[name]
		p.SignalWeights[name] = w
		if weightSum == 0 {
			continue
		}

		dir := "neutral"
		if sig.Score > factorDeadZone {
			dir = "bullish"
		} else if sig.Score < -factorDeadZone {
			dir = "bearish"
		}

		p.Factors = append(p.Factors, models.Factor{
			Source:       name,
			Score:        sig.Score,
			Weight:       w,
			Contribution: w * sig.Score / weightSum,
			Direction:    dir,
			Description:  sig.Description,
		})
	}

	sort.SliceStable(p.Factors, func(i, j int) bool {
		return math.Abs(p.Factors[i].Contribution) > math.Abs(p.Factors[j].Contribution)
	})

	top := len(p.Factors)
	if top > 5 {
		top = 5
	}
	p.TopFactors = p.Factors[:top]

	return p
}

func (e *Engine) strength(confidence float64) string {
	switch {
	case confidence >= e.confHigh:
		return "STRONG"
	case confidence >= e.confMed:
		return "MODERATE"
	case confidence >= e.confLow:
		return "WEAK"
	default:
		return "VERY WEAK"
	}
}
