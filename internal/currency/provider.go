// Package currency provides the USD to UAH exchange rate from the National
// Bank of Ukraine, cached in Redis.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/logger"
	"github.com/micronstore/storefront/pkg/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// CacheName is the cache entry holding the last fetched rate.
const CacheName = "usd_to_uah_rate"

const (
	defaultTTL     = time.Hour
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20
)

type cacheStore interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(name string) string
}

type cachedRate struct {
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Provider looks up the rate. Concurrent misses share one upstream request.
type Provider struct {
	url     string
	ttl     time.Duration
	timeout time.Duration
	http    *http.Client
	cache   cacheStore
	metrics *metrics.CurrencyMetrics
	logg    *logger.Logger
	now     func() time.Time
	group   singleflight.Group
}

type Option func(*Provider)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.http = c }
}

func WithMetrics(m *metrics.CurrencyMetrics) Option {
	return func(p *Provider) { p.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Provider) { p.logg = l }
}

func NewProvider(cfg config.CurrencyConfig, cache cacheStore, opts ...Option) (*Provider, error) {
	if cfg.NBUURL == "" {
		return nil, fmt.Errorf("nbu url required")
	}
	if cache == nil {
		return nil, fmt.Errorf("rate cache required")
	}
	p := &Provider{
		url:     cfg.NBUURL,
		ttl:     cfg.CacheTTL,
		timeout: cfg.Timeout,
		cache:   cache,
		logg:    logger.Nop(),
		now:     time.Now,
	}
	if p.ttl <= 0 {
		p.ttl = defaultTTL
	}
	if p.timeout <= 0 {
		p.timeout = defaultTimeout
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.http == nil {
		p.http = &http.Client{}
	}
	return p, nil
}

// USDToUAH returns the rate and whether one is known. Failures are logged
// and reported as no rate so prices fall back to dollars.
func (p *Provider) USDToUAH(ctx context.Context) (decimal.Decimal, bool) {
	key := p.cache.CacheKey(CacheName)

	var cached cachedRate
	found, err := p.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "currency.cache.read_failed")
	}
	if found && cached.Rate.IsPositive() {
		p.metrics.Observe(metrics.RateCacheHit)
		return cached.Rate, true
	}

	v, err, _ := p.group.Do(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		rate, err := p.fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		entry := cachedRate{Rate: rate, FetchedAt: p.now().UTC()}
		if err := p.cache.SetJSON(fetchCtx, key, entry, p.ttl); err != nil {
			p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "currency.cache.write_failed")
		}
		p.logg.Info(p.logg.WithField(ctx, "rate", rate.String()), "currency.rate.fetched")
		return rate, nil
	})
	if err != nil {
		p.metrics.Observe(metrics.RateFetchError)
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "currency.rate.fetch_failed")
		return decimal.Decimal{}, false
	}
	p.metrics.Observe(metrics.RateFetched)
	return v.(decimal.Decimal), true
}

// fetch reads the first entry of the NBU exchange response.
func (p *Provider) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("build nbu request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("nbu request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("nbu status %d", resp.StatusCode)
	}

	var body []struct {
		Rate json.Number `json:"rate"`
	}
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode nbu response: %w", err)
	}
	if len(body) == 0 {
		return decimal.Decimal{}, fmt.Errorf("nbu response is empty")
	}
	rate, err := decimal.NewFromString(body[0].Rate.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse nbu rate %q: %w", body[0].Rate, err)
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("nbu rate %s is not positive", rate)
	}
	return rate, nil
}
