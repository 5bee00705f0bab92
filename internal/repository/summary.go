package repository

import (
	"time"

	"SolPulse/internal/domain/models"
)

const signalDeadZone = 0.05

// summarize computes the accuracy report from a full record set. Both
// storage backends share it so the numbers cannot drift between them.
func summarize(recs []*models.PredictionRecord, now time.Time) *models.AccuracySummary {
	s := &models.AccuracySummary{TotalPredictions: len(recs)}

	var correct7, total7, correct30, total30 int
	dirStats := map[string]*models.DirectionStat{}
	signalHits := map[string]int{}
	signalTotals := map[string]int{}

	for _, r := range recs {
		if !r.Checked() {
			continue
		}
		s.Checked++
		ok := *r.WasCorrect
		if ok {
			s.Correct++
		}

		age := now.Sub(r.Timestamp)
		if age <= 7*24*time.Hour {
			total7++
			if ok {
				correct7++
			}
		}
		if age <= 30*24*time.Hour {
			total30++
			if ok {
				correct30++
			}
		}

		d := string(r.Direction)
		st, found := dirStats[d]
		if !found {
			st = &models.DirectionStat{}
			dirStats[d] = st
		}
		st.Total++
		if ok {
			st.Correct++
		}

		if r.ActualChangePct != nil {
			up := *r.ActualChangePct > 0
			for name, score := range r.SignalScores {
				if score > signalDeadZone {
					signalTotals[name]++
					if up {
						signalHits[name]++
					}
				} else if score < -signalDeadZone {
					signalTotals[name]++
					if !up {
						signalHits[name]++
					}
				}
			}
		}
	}

	if s.Checked == 0 {
		s.Message = "no predictions checked yet"
		return s
	}

	overall := pct(s.Correct, s.Checked)
	s.OverallAccuracy = &overall
	if total7 > 0 {
		v := pct(correct7, total7)
		s.Accuracy7d = &v
	}
	if total30 > 0 {
		v := pct(correct30, total30)
		s.Accuracy30d = &v
	}

	if len(dirStats) > 0 {
		s.DirectionStats = make(map[string]models.DirectionStat, len(dirStats))
		for d, st := range dirStats {
			st.Accuracy = pct(st.Correct, st.Total)
			s.DirectionStats[d] = *st
		}
	}
	if len(signalTotals) > 0 {
		s.SignalAccuracy = make(map[string]float64, len(signalTotals))
		for name, total := range signalTotals {
			s.SignalAccuracy[name] = pct(signalHits[name], total)
		}
	}

	return s
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
