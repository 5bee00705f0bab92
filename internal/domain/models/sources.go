package models

import "time"

// OnchainData aggregates chain-level activity used by the onchain signal.
type OnchainData struct {
	Source         string    `json:"source"`
	Timestamp      time.Time `json:"timestamp"`
	TVLUSD         float64   `json:"tvl_usd"`
	TVLChange7dPct *float64  `json:"tvl_change_7d_pct,omitempty"`
	DexVolume24h   float64   `json:"dex_volume_24h_usd"`
	DexLiquidity   float64   `json:"dex_liquidity_usd"`
	DexBuys24h     int       `json:"dex_buys_24h"`
	DexSells24h    int       `json:"dex_sells_24h"`
}

// WhaleTrade is one exchange trade above the whale notional threshold.
type WhaleTrade struct {
	Timestamp   time.Time `json:"timestamp"`
	Price       float64   `json:"price"`
	Quantity    float64   `json:"quantity"`
	NotionalUSD float64   `json:"notional_usd"`
	IsBuy       bool      `json:"is_buy"`
}

// WhaleActivity summarizes recent large trades on the tracked pair.
type WhaleActivity struct {
	Source      string       `json:"source"`
	Timestamp   time.Time    `json:"timestamp"`
	Window      string       `json:"window"`
	Trades      []WhaleTrade `json:"trades,omitempty"`
	BuyVolume   float64      `json:"buy_volume_usd"`
	SellVolume  float64      `json:"sell_volume_usd"`
	NetFlowUSD  float64      `json:"net_flow_usd"`
	LargestUSD  float64      `json:"largest_usd"`
	TradesCount int          `json:"trades_count"`
}

// NewsItem is one headline pulled from an RSS feed.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// RedditPost is one post from a tracked subreddit.
type RedditPost struct {
	Title       string    `json:"title"`
	Subreddit   string    `json:"subreddit"`
	Score       int       `json:"score"`
	NumComments int       `json:"num_comments"`
	CreatedAt   time.Time `json:"created_at"`
}

// SocialMetrics holds aggregate social sentiment for the tracked coin.
type SocialMetrics struct {
	Source         string    `json:"source"`
	Timestamp      time.Time `json:"timestamp"`
	GalaxyScore     *float64 `json:"galaxy_score,omitempty"`
	AltRank         *int     `json:"alt_rank,omitempty"`
	SentimentPct    *float64 `json:"sentiment_pct,omitempty"`
	SocialVolume    *float64 `json:"social_volume,omitempty"`
	Interactions    *float64 `json:"interactions_24h,omitempty"`
	SocialDominance *float64 `json:"social_dominance,omitempty"`
}

// VideoItem is one recent video from a tracked channel feed.
type VideoItem struct {
	Title       string    `json:"title"`
	ChannelID   string    `json:"channel_id"`
	VideoID     string    `json:"video_id"`
	PublishedAt time.Time `json:"published_at"`
}
