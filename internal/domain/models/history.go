package models

import "time"

// PredictionRecord is a logged prediction awaiting (or holding) its
// result check. WasCorrect is tri-state: nil means not yet checked.
type PredictionRecord struct {
	ID                int64              `json:"id"`
	Timestamp         time.Time          `json:"timestamp"`
	Direction         Direction          `json:"direction"`
	Confidence        float64            `json:"confidence"`
	Strength          string             `json:"strength,omitempty"`
	WeightedScore     float64            `json:"weighted_score"`
	PriceAtPrediction *float64           `json:"price_at_prediction,omitempty"`
	Timeframe         string             `json:"timeframe"`
	SignalScores      map[string]float64 `json:"signal_scores,omitempty"`

	// Filled by the result checker once the timeframe has elapsed.
	PriceAfter      *float64   `json:"price_after,omitempty"`
	ActualChangePct *float64   `json:"actual_change_pct,omitempty"`
	WasCorrect      *bool      `json:"was_correct,omitempty"`
	CheckedAt       *time.Time `json:"checked_at,omitempty"`
}

// Checked reports whether the record's outcome has been resolved.
func (r *PredictionRecord) Checked() bool { return r.WasCorrect != nil }

// DirectionStat holds per-direction accuracy counts.
type DirectionStat struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// AccuracySummary is the rolling accuracy report. When no prediction has
// been checked yet only TotalPredictions (and Message) are populated.
type AccuracySummary struct {
	TotalPredictions int                      `json:"total_predictions"`
	Checked          int                      `json:"checked"`
	Correct          int                      `json:"correct"`
	OverallAccuracy  *float64                 `json:"overall_accuracy,omitempty"`
	Accuracy7d       *float64                 `json:"accuracy_7d,omitempty"`
	Accuracy30d      *float64                 `json:"accuracy_30d,omitempty"`
	DirectionStats   map[string]DirectionStat `json:"direction_stats,omitempty"`
	SignalAccuracy   map[string]float64       `json:"signal_accuracy,omitempty"`
	Message          string                   `json:"message,omitempty"`
}
