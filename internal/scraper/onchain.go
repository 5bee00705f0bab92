package scraper

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"SolPulse/internal/domain/models"
	"SolPulse/pkg/logger"
)

// OnchainScraper combines DefiLlama TVL with DexScreener pair activity.
type OnchainScraper struct {
	f          *fetcher
	llamaURL   string
	llamaChain string
	dexURL     string
	dexChain   string
	coinID     string
	log        *logger.Logger
}

type llamaTVLPoint struct {
	Date int64   `json:"date"`
	TVL  float64 `json:"tvl"`
}

type dexPairsResponse struct {
	Pairs []struct {
		ChainID   string `json:"chainId"`
		Volume    struct {
			H24 float64 `json:"h24"`
		} `json:"volume"`
		Liquidity struct {
			USD float64 `json:"usd"`
		} `json:"liquidity"`
		Txns struct {
			H24 struct {
				Buys  int `json:"buys"`
				Sells int `json:"sells"`
			} `json:"h24"`
		} `json:"txns"`
	} `json:"pairs"`
}

// Fetch builds the onchain activity snapshot for the tracked chain.
func (s *OnchainScraper) Fetch(ctx context.Context) (*models.OnchainData, error) {
	out := &models.OnchainData{
		Source:    "defillama+dexscreener",
		Timestamp: time.Now().UTC(),
	}

	var points []llamaTVLPoint
	url := fmt.Sprintf("%s/v2/historicalChainTvl/%s", s.llamaURL, s.llamaChain)
	if err := s.f.getJSON(ctx, url, nil, nil, &points); err != nil {
		return nil, fmt.Errorf("defillama tvl: %w", err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("defillama tvl: empty series for %s", s.llamaChain)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	out.TVLUSD = points[len(points)-1].TVL
	if len(points) >= 8 {
		prev := points[len(points)-8].TVL
		if prev > 0 {
			change := (out.TVLUSD - prev) / prev * 100
			out.TVLChange7dPct = &change
		}
	}

	// DexScreener is best-effort; TVL alone still produces a signal.
	var pairs dexPairsResponse
	dexURL := fmt.Sprintf("%s/latest/dex/search", s.dexURL)
	params := map[string][]string{"q": {s.coinID}}
	if err := s.f.getJSON(ctx, dexURL, params, nil, &pairs); err != nil {
		s.log.Warn("dexscreener fetch failed", logger.Error(err))
		return out, nil
	}

	for _, p := range pairs.Pairs {
		if !strings.EqualFold(p.ChainID, s.dexChain) {
			continue
		}
		out.DexVolume24h += p.Volume.H24
		out.DexLiquidity += p.Liquidity.USD
		out.DexBuys24h += p.Txns.H24.Buys
		out.DexSells24h += p.Txns.H24.Sells
	}

	return out, nil
}
