package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"PremiumSentinel/internal/cache"
)

// Defaults for upstream HTTP access.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5
	DefaultCacheTTL  = 10 * time.Minute
)

// HTTPOptions configures a feed client.
type HTTPOptions struct {
	BaseURL   string
	Proxy     string
	Timeout   time.Duration
	RateLimit float64 // requests per second
	Cache     cache.Cache
	CacheTTL  time.Duration
	Client    *http.Client // overrides Proxy and Timeout when set
}

// getter performs rate-limited, cached GET requests against one upstream.
type getter struct {
	client  *http.Client
	limiter *rate.Limiter
	cache   cache.Cache
	ttl     time.Duration
}

func newGetter(opts HTTPOptions) *getter {
	client := opts.Client
	if client == nil {
		transport := &http.Transport{}
		if opts.Proxy != "" {
			if u, err := url.Parse(opts.Proxy); err == nil {
				transport.Proxy = http.ProxyURL(u)
			}
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout, Transport: transport}
	}

	rps := opts.RateLimit
	if rps <= 0 {
		rps = DefaultRateLimit
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	c := opts.Cache
	if c == nil {
		c = cache.Nop{}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &getter{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cache:   c,
		ttl:     ttl,
	}
}

// get returns the body of rawURL, served from cache under cacheKey when fresh.
func (g *getter) get(ctx context.Context, rawURL, cacheKey string) ([]byte, error) {
	if body, err := g.cache.Get(ctx, cacheKey); err == nil {
		log.Debug().Str("key", cacheKey).Msg("feed cache hit")
		return body, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", cacheKey).Msg("feed cache read failed")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://quote.eastmoney.com/")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := g.cache.Set(ctx, cacheKey, body, g.ttl); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("feed cache write failed")
	}
	return body, nil
}
