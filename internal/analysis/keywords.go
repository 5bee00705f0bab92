package analysis

import "strings"

// KeywordScorer scores free text against bullish and bearish word lists.
type KeywordScorer struct {
	bullish []string
	bearish []string
}

func NewKeywordScorer(bullish, bearish []string) *KeywordScorer {
	lower := func(in []string) []string {
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = strings.ToLower(s)
		}
		return out
	}
	return &KeywordScorer{bullish: lower(bullish), bearish: lower(bearish)}
}

// ScoreText returns a score in [-1, 1] for one text, and whether any
// keyword matched at all.
func (k *KeywordScorer) ScoreText(text string) (float64, bool) {
	t := strings.ToLower(text)
	var bull, bear int
	for _, w := range k.bullish {
		if strings.Contains(t, w) {
			bull++
		}
	}
	for _, w := range k.bearish {
		if strings.Contains(t, w) {
			bear++
		}
	}
	total := bull + bear
	if total == 0 {
		return 0, false
	}
	return float64(bull-bear) / float64(total), true
}

// ScoreTexts averages per-text scores over the texts that matched any
// keyword. Texts with no matches do not dilute the signal.
func (k *KeywordScorer) ScoreTexts(texts []string) float64 {
	var sum float64
	var matched int
	for _, t := range texts {
		s, ok := k.ScoreText(t)
		if !ok {
			continue
		}
		sum += s
		matched++
	}
	if matched == 0 {
		return 0
	}
	return sum / float64(matched)
}
