package analysis

import (
	"fmt"

	"SolPulse/internal/domain/models"
)

// FearGreedScore maps the index to a contrarian score: extreme fear is
// treated as a buying signal, extreme greed as a selling one.
func FearGreedScore(fg *models.FearGreed) (float64, string) {
	if fg == nil || fg.CurrentValue == nil {
		return 0, "fear & greed unavailable"
	}
	v := *fg.CurrentValue

	var score float64
	switch {
	case v <= 25:
		score = 0.6
	case v <= 45:
		score = 0.3
	case v <= 55:
		score = 0
	case v <= 75:
		score = -0.3
	default:
		score = -0.6
	}

	if fg.Trend == "rising" {
		score += 0.1
	} else if fg.Trend == "falling" {
		score -= 0.1
	}

	desc := fmt.Sprintf("index %d (%s), trend %s", v, fg.Classification, fg.Trend)
	return Clamp(score, -1, 1), desc
}

// OnchainScore scores chain activity from TVL momentum and DEX flow.
func OnchainScore(d *models.OnchainData) (float64, string) {
	if d == nil {
		return 0, "onchain data unavailable"
	}

	var score float64
	desc := fmt.Sprintf("TVL $%.0fM", d.TVLUSD/1e6)

	if d.TVLChange7dPct != nil {
		score += Clamp(*d.TVLChange7dPct/10, -0.7, 0.7)
		desc += fmt.Sprintf(", 7d %+.1f%%", *d.TVLChange7dPct)
	}

	if total := d.DexBuys24h + d.DexSells24h; total > 0 {
		buyRatio := float64(d.DexBuys24h) / float64(total)
		score += (buyRatio - 0.5) * 0.6
		desc += fmt.Sprintf(", dex buy ratio %.2f", buyRatio)
	}

	return Clamp(score, -1, 1), desc
}

// WhalesScore scores the net direction of whale-sized trades.
func WhalesScore(w *models.WhaleActivity) (float64, string) {
	if w == nil || w.TradesCount == 0 {
		return 0, "no whale trades in window"
	}

	total := w.BuyVolume + w.SellVolume
	if total == 0 {
		return 0, "no whale volume in window"
	}

	score := Clamp(w.NetFlowUSD/total*0.8, -1, 1)
	desc := fmt.Sprintf("%d large trades, net flow $%.0fk", w.TradesCount, w.NetFlowUSD/1e3)
	return score, desc
}

// SocialScore scores LunarCrush aggregate metrics around their midpoints.
func SocialScore(m *models.SocialMetrics) (float64, string) {
	if m == nil {
		return 0, "social metrics unavailable"
	}

	var score float64
	desc := "lunarcrush"

	if m.GalaxyScore != nil {
		score += (*m.GalaxyScore - 50) / 50 * 0.6
		desc += fmt.Sprintf(" galaxy %.0f", *m.GalaxyScore)
	}
	if m.SentimentPct != nil {
		score += (*m.SentimentPct - 50) / 50 * 0.4
		desc += fmt.Sprintf(", sentiment %.0f%%", *m.SentimentPct)
	}

	return Clamp(score, -1, 1), desc
}

// NewsScore runs keyword sentiment over headline titles.
func NewsScore(items []models.NewsItem, k *KeywordScorer) (float64, string) {
	if len(items) == 0 {
		return 0, "no recent headlines"
	}
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}
	score := k.ScoreTexts(titles)
	return score, fmt.Sprintf("%d headlines analyzed", len(items))
}

// RedditScore runs keyword sentiment over post titles, weighting each
// matched title equally.
func RedditScore(posts []models.RedditPost, k *KeywordScorer) (float64, string) {
	if len(posts) == 0 {
		return 0, "no recent posts"
	}
	titles := make([]string, len(posts))
	for i, p := range posts {
		titles[i] = p.Title
	}
	score := k.ScoreTexts(titles)
	return score, fmt.Sprintf("%d posts analyzed", len(posts))
}

// YouTubeScore runs keyword sentiment over recent video titles.
func YouTubeScore(videos []models.VideoItem, k *KeywordScorer) (float64, string) {
	if len(videos) == 0 {
		return 0, "no recent videos"
	}
	titles := make([]string, len(videos))
	for i, v := range videos {
		titles[i] = v.Title
	}
	score := k.ScoreTexts(titles)
	return score, fmt.Sprintf("%d videos analyzed", len(videos))
}
