package currency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/metrics"
	pkgredis "github.com/micronstore/storefront/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func nbuServer(t *testing.T, status int, body string, hits *int32, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]cachedRate
	readErr error
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return false, m.readErr
	}
	v, ok := m.entries[key]
	if ok {
		*(dest.(*cachedRate)) = v
	}
	return ok, nil
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = map[string]cachedRate{}
	}
	m.entries[key] = value.(cachedRate)
	return nil
}

func (m *memoryCache) CacheKey(name string) string {
	return "test:" + name
}

func lookups(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "currency_rate_lookups_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func cfgFor(url string) config.CurrencyConfig {
	return config.CurrencyConfig{NBUURL: url, CacheTTL: time.Hour, Timeout: time.Second}
}

func TestNewProviderValidates(t *testing.T) {
	_, err := NewProvider(config.CurrencyConfig{}, &memoryCache{})
	assert.Error(t, err)
	_, err = NewProvider(cfgFor("http://x"), nil)
	assert.Error(t, err)
}

func TestUSDToUAHFetchesThenUsesCache(t *testing.T) {
	var hits int32
	srv := nbuServer(t, http.StatusOK, `[{"r030":840,"txt":"Долар США","rate":41.2543,"cc":"USD","exchangedate":"01.05.2026"}]`, &hits, 0)

	reg := prometheus.NewRegistry()
	m := metrics.NewCurrencyMetrics(reg)
	cache := &memoryCache{}
	p, err := NewProvider(cfgFor(srv.URL), cache, WithMetrics(m))
	require.NoError(t, err)
	ctx := context.Background()

	rate, ok := p.USDToUAH(ctx)
	require.True(t, ok)
	assert.Equal(t, "41.2543", rate.String())

	rate, ok = p.USDToUAH(ctx)
	require.True(t, ok)
	assert.Equal(t, "41.2543", rate.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	assert.Equal(t, 1.0, lookups(t, reg, metrics.RateFetched))
	assert.Equal(t, 1.0, lookups(t, reg, metrics.RateCacheHit))
	assert.Equal(t, 0.0, lookups(t, reg, metrics.RateFetchError))
}

func TestUSDToUAHFailuresReportNoRate(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"server error": {http.StatusBadGateway, `oops`},
		"empty list":   {http.StatusOK, `[]`},
		"bad json":     {http.StatusOK, `{"rate":`},
		"zero rate":    {http.StatusOK, `[{"rate":0}]`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := nbuServer(t, tc.status, tc.body, nil, 0)
			cache := &memoryCache{}
			p, err := NewProvider(cfgFor(srv.URL), cache)
			require.NoError(t, err)

			_, ok := p.USDToUAH(context.Background())
			assert.False(t, ok)
			assert.Empty(t, cache.entries)
		})
	}
}

func TestUSDToUAHCacheReadFailureFallsBackToFetch(t *testing.T) {
	srv := nbuServer(t, http.StatusOK, `[{"rate":40}]`, nil, 0)
	p, err := NewProvider(cfgFor(srv.URL), &memoryCache{readErr: errors.New("redis down")})
	require.NoError(t, err)

	rate, ok := p.USDToUAH(context.Background())
	require.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(40)))
}

func TestUSDToUAHCollapsesConcurrentFetches(t *testing.T) {
	var hits int32
	srv := nbuServer(t, http.StatusOK, `[{"rate":41}]`, &hits, 50*time.Millisecond)
	p, err := NewProvider(cfgFor(srv.URL), &blockingMissCache{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := p.USDToUAH(context.Background())
			assert.True(t, ok)
		}()
	}
	wg.Wait()
	assert.Less(t, atomic.LoadInt32(&hits), int32(8))
}

// blockingMissCache never has an entry, so every caller goes upstream.
type blockingMissCache struct{ memoryCache }

func (b *blockingMissCache) GetJSON(context.Context, string, any) (bool, error) {
	return false, nil
}

func TestUSDToUAHWithRedis(t *testing.T) {
	srv := nbuServer(t, http.StatusOK, `[{"rate":41.2}]`, nil, 0)
	rdb, mock := redismock.NewClientMock()
	p, err := NewProvider(cfgFor(srv.URL), pkgredis.NewFromRedis(rdb))
	require.NoError(t, err)
	p.now = func() time.Time { return fixedNow }

	key := "micron:cache:usd_to_uah_rate"
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte(`{"rate":"41.2","fetched_at":"2026-05-01T12:00:00Z"}`), time.Hour).SetVal("OK")
	mock.ExpectGet(key).SetVal(`{"rate":"41.2","fetched_at":"2026-05-01T12:00:00Z"}`)

	ctx := context.Background()
	rate, ok := p.USDToUAH(ctx)
	require.True(t, ok)
	assert.Equal(t, "41.2", rate.String())

	rate, ok = p.USDToUAH(ctx)
	require.True(t, ok)
	assert.Equal(t, "41.2", rate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
