// Package render maps API payloads onto display-ready view models.
// Every function is pure: missing or null fields degrade to a neutral
// placeholder instead of failing, because the server is an external
// collaborator whose payloads are not fully trusted.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	models "SolPulse/internal/domain/models"
	"SolPulse/pkg/util"
)

// Placeholder is rendered wherever a value is absent.
const Placeholder = "—"

// Tone classifies a score or direction for display.
type Tone string

const (
	ToneBullish Tone = "bullish"
	ToneBearish Tone = "bearish"
	ToneNeutral Tone = "neutral"
)

// toneDeadZone is the band around zero treated as neutral.
const toneDeadZone = 0.02

// ClassifyScore maps a signal score onto a display tone. Scores within
// the dead zone around zero are neutral.
func ClassifyScore(score float64) Tone {
	switch {
	case score > toneDeadZone:
		return ToneBullish
	case score < -toneDeadZone:
		return ToneBearish
	default:
		return ToneNeutral
	}
}

// --- Price ---

// PriceView is the formatted price header.
type PriceView struct {
	Price    string
	Change   string
	Positive bool
}

// PriceLine formats the current price and 24h change. Zero change
// counts as positive.
func PriceLine(qd *models.QuickData) PriceView {
	v := PriceView{Price: Placeholder, Change: Placeholder, Positive: true}
	if qd == nil || qd.Price == nil || qd.Price.CoinGecko == nil {
		return v
	}
	cg := qd.Price.CoinGecko
	if cg.PriceUSD != nil {
		v.Price = FormatUSD(*cg.PriceUSD)
	}
	if cg.PriceChange24hPct != nil {
		v.Change = FormatPct(*cg.PriceChange24hPct)
		v.Positive = *cg.PriceChange24hPct >= 0
	}
	return v
}

// FormatUSD renders a dollar amount to two decimals.
func FormatUSD(v float64) string { return fmt.Sprintf("$%.2f", v) }

// FormatPct renders a signed percentage to two decimals.
func FormatPct(v float64) string { return fmt.Sprintf("%+.2f%%", v) }

// --- Fear & Greed ---

// GaugeLevel is the five-step color scale of the Fear & Greed index.
type GaugeLevel string

const (
	LevelExtremeFear  GaugeLevel = "extreme-fear"
	LevelFear         GaugeLevel = "fear"
	LevelNeutral      GaugeLevel = "neutral"
	LevelGreed        GaugeLevel = "greed"
	LevelExtremeGreed GaugeLevel = "extreme-greed"
)

// FearGreedLevel buckets an index value. Boundary values fall into the
// lower bucket.
func FearGreedLevel(v int) GaugeLevel {
	switch {
	case v <= 25:
		return LevelExtremeFear
	case v <= 45:
		return LevelFear
	case v <= 55:
		return LevelNeutral
	case v <= 75:
		return LevelGreed
	default:
		return LevelExtremeGreed
	}
}

// FearGreedView is the formatted index gauge.
type FearGreedView struct {
	Value          string
	Classification string
	Level          GaugeLevel
}

// FearGreedGauge formats the Fear & Greed index with a placeholder when
// the value is absent.
func FearGreedGauge(fg *models.FearGreed) FearGreedView {
	v := FearGreedView{Value: Placeholder, Classification: Placeholder, Level: LevelNeutral}
	if fg == nil {
		return v
	}
	if fg.CurrentValue != nil {
		v.Value = fmt.Sprintf("%d", *fg.CurrentValue)
		v.Level = FearGreedLevel(*fg.CurrentValue)
	}
	if fg.Classification != "" {
		v.Classification = fg.Classification
	}
	return v
}

// --- Signal meter ---

// NeedlePosition maps a weighted score in [-1,1] onto a gauge position
// in percent, clamped to [2,98] so the needle stays on the track.
func NeedlePosition(score float64) float64 {
	pos := (score + 1) / 2 * 100
	if pos < 2 {
		return 2
	}
	if pos > 98 {
		return 98
	}
	return pos
}

// --- Signal bars ---

type signalMeta struct {
	glyph string
	label string
}

var signalGlyphs = map[string]signalMeta{
	string(models.SignalTechnical): {"📈", "Technical"},
	string(models.SignalOnchain):   {"⛓️", "On-chain"},
	string(models.SignalWhales):    {"🐋", "Whales"},
	string(models.SignalNews):      {"📰", "News"},
	string(models.SignalSocial):    {"💬", "Social"},
	string(models.SignalFearGreed): {"😱", "Fear & Greed"},
	string(models.SignalYouTube):   {"📺", "YouTube"},
}

// SignalGlyph resolves the display glyph and label for a signal key.
// Unknown keys render with a bullet and the raw key.
func SignalGlyph(key string) (glyph, label string) {
	if m, ok := signalGlyphs[key]; ok {
		return m.glyph, m.label
	}
	return "•", key
}

// SignalBar is one row of the per-signal breakdown.
type SignalBar struct {
	Key   string
	Glyph string
	Label string
	Score float64
	Width float64 // percent, 0..50
	Tone  Tone
}

// SignalBars sorts signal scores by descending magnitude and scales
// each onto a half-width bar. Ties sort by key so output is stable.
func SignalBars(scores map[string]float64) []SignalBar {
	bars := make([]SignalBar, 0, len(scores))
	for key, score := range scores {
		glyph, label := SignalGlyph(key)
		bars = append(bars, SignalBar{
			Key:   key,
			Glyph: glyph,
			Label: label,
			Score: score,
			Width: BarWidth(score),
			Tone:  ClassifyScore(score),
		})
	}
	sort.Slice(bars, func(i, j int) bool {
		ai, aj := abs(bars[i].Score), abs(bars[j].Score)
		if ai != aj {
			return ai > aj
		}
		return bars[i].Key < bars[j].Key
	})
	return bars
}

// BarWidth scales |score| onto [0,50] percent.
func BarWidth(score float64) float64 {
	w := abs(score) * 50
	if w < 0 {
		return 0
	}
	if w > 50 {
		return 50
	}
	return w
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// --- Top factors ---

const maxTopFactors = 5

// FactorRow is one ranked entry of the factor list.
type FactorRow struct {
	Rank        int
	Glyph       string
	Description string
	Tone        Tone
}

// TopFactorRows takes at most the first five factors in server order.
// The explicit direction field wins; otherwise tone derives from the
// sign of the score.
func TopFactorRows(p *models.Prediction) []FactorRow {
	if p == nil {
		return nil
	}
	factors := p.TopFactors
	if len(factors) == 0 {
		factors = p.Factors
	}
	if len(factors) > maxTopFactors {
		factors = factors[:maxTopFactors]
	}
	rows := make([]FactorRow, 0, len(factors))
	for i, f := range factors {
		glyph, _ := SignalGlyph(f.Source)
		rows = append(rows, FactorRow{
			Rank:        i + 1,
			Glyph:       glyph,
			Description: f.Description,
			Tone:        factorTone(f),
		})
	}
	return rows
}

func factorTone(f models.Factor) Tone {
	switch strings.ToLower(f.Direction) {
	case "bullish":
		return ToneBullish
	case "bearish":
		return ToneBearish
	case "neutral":
		return ToneNeutral
	}
	switch {
	case f.Score > 0:
		return ToneBullish
	case f.Score < 0:
		return ToneBearish
	default:
		return ToneNeutral
	}
}

// --- History ---

// Result glyphs for the tri-state check outcome.
const (
	GlyphCorrect   = "✅"
	GlyphIncorrect = "❌"
	GlyphPending   = "⏳"
)

// HistoryRow is one rendered history entry.
type HistoryRow struct {
	When        string
	Direction   string
	Price       string
	Confidence  string
	Score       string
	Result      string
	Placeholder bool
}

// HistoryRows renders records in server order. An empty list yields a
// single placeholder row.
func HistoryRows(recs []*models.PredictionRecord, now time.Time) []HistoryRow {
	if len(recs) == 0 {
		return []HistoryRow{{When: "no predictions yet", Placeholder: true}}
	}
	rows := make([]HistoryRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, historyRow(r, now))
	}
	return rows
}

func historyRow(r *models.PredictionRecord, now time.Time) HistoryRow {
	row := HistoryRow{
		When:       RelativeTime(r.Timestamp.Format(time.RFC3339), now),
		Direction:  "N/A",
		Price:      Placeholder,
		Confidence: fmt.Sprintf("%.0f%%", r.Confidence),
		Score:      fmt.Sprintf("%+.2f", r.WeightedScore),
		Result:     GlyphPending,
	}
	if r.Direction != "" {
		row.Direction = strings.ToUpper(string(r.Direction))
	}
	if r.PriceAtPrediction != nil {
		row.Price = FormatUSD(*r.PriceAtPrediction)
	}
	if r.WasCorrect != nil {
		if *r.WasCorrect {
			row.Result = GlyphCorrect
		} else {
			row.Result = GlyphIncorrect
		}
	}
	return row
}

// --- Accuracy ---

// AccuracyLine prefers the checked/correct/accuracy triple and falls
// back to the raw prediction count while nothing has resolved yet.
func AccuracyLine(sum *models.AccuracySummary) string {
	if sum == nil {
		return Placeholder
	}
	if sum.Checked > 0 {
		acc := float64(sum.Correct) / float64(sum.Checked) * 100
		if sum.OverallAccuracy != nil {
			acc = *sum.OverallAccuracy
		}
		return fmt.Sprintf("%.1f%% (%d/%d checked)", acc, sum.Correct, sum.Checked)
	}
	return fmt.Sprintf("%d predictions logged, none checked yet", sum.TotalPredictions)
}

// --- Relative time ---

// RelativeTime renders an elapsed-time label against now. Unparseable
// input is returned verbatim.
func RelativeTime(ts string, now time.Time) string {
	t, ok := util.ParseTime(ts)
	if !ok {
		return ts
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2 15:04")
	}
}
