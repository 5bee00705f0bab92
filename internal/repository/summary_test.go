package repository

import (
	"testing"
	"time"

	"SolPulse/internal/domain/models"
)

func checked(ts time.Time, dir models.Direction, correct bool, changePct float64, scores map[string]float64) *models.PredictionRecord {
	return &models.PredictionRecord{
		Timestamp:       ts,
		Direction:       dir,
		WasCorrect:      &correct,
		ActualChangePct: &changePct,
		SignalScores:    scores,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := summarize(nil, time.Now().UTC())
	if s.TotalPredictions != 0 || s.Checked != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.Message == "" {
		t.Fatalf("expected explanatory message when nothing checked")
	}
	if s.OverallAccuracy != nil {
		t.Fatalf("overall accuracy must be absent when nothing checked")
	}
}

func TestSummarizeUncheckedOnly(t *testing.T) {
	recs := []*models.PredictionRecord{
		{Timestamp: time.Now().UTC(), Direction: models.DirectionLong},
		{Timestamp: time.Now().UTC(), Direction: models.DirectionShort},
	}
	s := summarize(recs, time.Now().UTC())
	if s.TotalPredictions != 2 || s.Checked != 0 {
		t.Fatalf("unexpected counts %+v", s)
	}
	if s.OverallAccuracy != nil {
		t.Fatalf("no accuracy without checks")
	}
}

func TestSummarizeOverallAndWindows(t *testing.T) {
	now := time.Now().UTC()
	recs := []*models.PredictionRecord{
		checked(now.Add(-2*24*time.Hour), models.DirectionLong, true, 3.0, nil),
		checked(now.Add(-3*24*time.Hour), models.DirectionLong, false, -1.0, nil),
		checked(now.Add(-20*24*time.Hour), models.DirectionShort, true, -2.5, nil),
		checked(now.Add(-40*24*time.Hour), models.DirectionShort, true, -4.0, nil),
	}
	s := summarize(recs, now)

	if s.Checked != 4 || s.Correct != 3 {
		t.Fatalf("checked=%d correct=%d", s.Checked, s.Correct)
	}
	if s.OverallAccuracy == nil || *s.OverallAccuracy != 75 {
		t.Fatalf("overall accuracy %v", s.OverallAccuracy)
	}
	if s.Accuracy7d == nil || *s.Accuracy7d != 50 {
		t.Fatalf("7d accuracy %v", s.Accuracy7d)
	}
	if s.Accuracy30d == nil {
		t.Fatalf("30d accuracy missing")
	}
	ls := s.DirectionStats[string(models.DirectionLong)]
	if ls.Total != 2 || ls.Correct != 1 || ls.Accuracy != 50 {
		t.Fatalf("long stats %+v", ls)
	}
}

func TestSummarizeSignalAccuracy(t *testing.T) {
	now := time.Now().UTC()
	recs := []*models.PredictionRecord{
		// technical called up, price went up; news called down, price up.
		checked(now, models.DirectionLong, true, 2.0, map[string]float64{
			"technical": 0.4, "news": -0.3, "social": 0.01,
		}),
		// technical called up, price went down.
		checked(now, models.DirectionLong, false, -1.0, map[string]float64{
			"technical": 0.2,
		}),
	}
	s := summarize(recs, now)

	if got := s.SignalAccuracy["technical"]; got != 50 {
		t.Fatalf("technical accuracy %v", got)
	}
	if got := s.SignalAccuracy["news"]; got != 0 {
		t.Fatalf("news accuracy %v", got)
	}
	if _, ok := s.SignalAccuracy["social"]; ok {
		t.Fatalf("dead-zone signal must not be scored")
	}
}
