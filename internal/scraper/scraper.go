package scraper

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	phttp "SolPulse/pkg/http"
	"SolPulse/pkg/logger"
)

// fetcher is the shared transport for all source scrapers. Every request
// passes the rate limiter first, then retries transient failures with
// exponential backoff.
type fetcher struct {
	http    *phttp.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func newFetcher(timeout time.Duration, maxRPS float64, log *logger.Logger) *fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxRPS <= 0 {
		maxRPS = 5
	}
	return &fetcher{
		http:    phttp.NewClient(phttp.WithTimeout(timeout)),
		limiter: rate.NewLimiter(rate.Limit(maxRPS), int(maxRPS)+1),
		log:     log,
	}
}

func (f *fetcher) getJSON(ctx context.Context, url string, params map[string][]string, headers map[string]string, dest interface{}) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	op := func() error {
		return f.http.SendAndParse(ctx, &phttp.RequestOptions{
			Method:      phttp.MethodGet,
			URL:         url,
			Headers:     headers,
			QueryParams: params,
		}, dest)
	}

	bo := backoff.WithContext(newRetryPolicy(), ctx)
	return backoff.Retry(op, bo)
}

func (f *fetcher) getBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var body []byte
	if err := f.getJSON(ctx, url, nil, headers, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func newRetryPolicy() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 20 * time.Second
	return bo
}
