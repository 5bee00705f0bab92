package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	models "SolPulse/internal/domain/models"
	"SolPulse/internal/render"
)

// ANSI colors for tone classification.
const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
	colorReset  = "\033[0m"
)

// termView renders coordinator updates as plain terminal sections.
type termView struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

func newTermView(out io.Writer, color bool) *termView {
	return &termView{out: out, color: color}
}

func (v *termView) paint(tone render.Tone, s string) string {
	if !v.color {
		return s
	}
	switch tone {
	case render.ToneBullish:
		return colorGreen + s + colorReset
	case render.ToneBearish:
		return colorRed + s + colorReset
	default:
		return colorYellow + s + colorReset
	}
}

func (v *termView) printf(format string, args ...interface{}) {
	fmt.Fprintf(v.out, format, args...)
}

func (v *termView) section(title string) {
	v.printf("\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func (v *termView) SetTriggerEnabled(enabled bool) {
	// No persistent control in a one-shot terminal UI.
}

func (v *termView) SetOverlay(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if visible {
		v.printf("\n⏳ analysis running...\n")
	}
}

func (v *termView) SetStatusBadge(st *models.RunState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if st == nil {
		return
	}
	line := fmt.Sprintf("status: %s", st.Status)
	if st.LastRun != nil {
		line += fmt.Sprintf("  (last run %s)", render.RelativeTime(st.LastRun.Format(time.RFC3339), time.Now()))
	}
	v.printf("%s\n", line)
}

func (v *termView) ShowRunError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printf("%s\n", v.paint(render.ToneBearish, "run failed: "+msg))
}

func (v *termView) RenderQuickData(qd *models.QuickData) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.section("Market")

	price := render.PriceLine(qd)
	tone := render.ToneBullish
	if !price.Positive {
		tone = render.ToneBearish
	}
	v.printf("SOL %s  %s\n", price.Price, v.paint(tone, price.Change))

	var fg *models.FearGreed
	if qd != nil {
		fg = qd.FearGreed
	}
	gauge := render.FearGreedGauge(fg)
	v.printf("Fear & Greed: %s (%s, %s)\n", gauge.Value, gauge.Classification, gauge.Level)
}

func (v *termView) RenderLatest(p *models.Prediction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.section("Latest prediction")
	if p == nil {
		v.printf("%s\n", render.Placeholder)
		return
	}

	tone := render.ClassifyScore(p.WeightedScore)
	v.printf("%s  confidence %.0f%%  strength %s\n",
		v.paint(tone, string(p.Direction)), p.Confidence, p.Strength)
	if p.CurrentPriceUSD != nil {
		v.printf("price %s\n", render.FormatUSD(*p.CurrentPriceUSD))
	}
	v.printf("score %+.3f  %s\n", p.WeightedScore, meter(render.NeedlePosition(p.WeightedScore)))

	for _, bar := range render.SignalBars(p.SignalScores) {
		blocks := int(bar.Width / 5)
		v.printf("  %s %-13s %s %s\n",
			bar.Glyph, bar.Label,
			v.paint(bar.Tone, strings.Repeat("█", blocks)+strings.Repeat("░", 10-blocks)),
			v.paint(bar.Tone, fmt.Sprintf("%+.2f", bar.Score)))
	}

	factors := render.TopFactorRows(p)
	if len(factors) > 0 {
		v.printf("top factors:\n")
		for _, f := range factors {
			v.printf("  %d. %s %s\n", f.Rank, f.Glyph, v.paint(f.Tone, f.Description))
		}
	}
}

// meter draws the score needle on a fixed-width track.
func meter(pos float64) string {
	const width = 21
	idx := int(pos / 100 * float64(width-1))
	track := []rune(strings.Repeat("·", width))
	track[idx] = '|'
	return "[" + string(track) + "]"
}

func (v *termView) RenderHistory(recs []*models.PredictionRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.section("History")
	rows := render.HistoryRows(recs, time.Now())
	for _, r := range rows {
		if r.Placeholder {
			v.printf("  %s\n", r.When)
			continue
		}
		v.printf("  %-14s %-8s %-10s %-5s %-7s %s\n",
			r.When, r.Direction, r.Price, r.Confidence, r.Score, r.Result)
	}
}

func (v *termView) RenderAccuracy(sum *models.AccuracySummary) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.section("Accuracy")
	v.printf("  %s\n", render.AccuracyLine(sum))
}
