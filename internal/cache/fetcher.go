package cache

import (
	"context"
	"net/url"
	"sync"

	"github.com/rohmanhakim/top-movies/internal/fetcher"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/retry"
)

// CachingFetcher serves pages from a Cache and falls back to the network
// on a miss. A hit costs zero network calls; a miss costs one successful
// fetch (plus retries of transient failures) followed by a cache write.
type CachingFetcher struct {
	cache        Cache
	fetcher      fetcher.Fetcher
	userAgent    string
	retryParam   retry.RetryParam
	metadataSink metadata.MetadataSink

	mu      sync.Mutex
	hits    int
	fetches int
}

func NewCachingFetcher(
	cache Cache,
	fetcher fetcher.Fetcher,
	userAgent string,
	retryParam retry.RetryParam,
	metadataSink metadata.MetadataSink,
) *CachingFetcher {
	return &CachingFetcher{
		cache:        cache,
		fetcher:      fetcher,
		userAgent:    userAgent,
		retryParam:   retryParam,
		metadataSink: metadataSink,
	}
}

// GetOrFetch returns the body stored for pageURL, fetching and caching it
// first when absent. Network errors are returned unchanged. A failure to
// persist the cache is not: the body was fetched and is still returned.
func (c *CachingFetcher) GetOrFetch(ctx context.Context, pageURL url.URL) (string, error) {
	key := pageURL.String()

	if body, ok := c.cache.Get(key); ok {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		c.metadataSink.RecordCacheHit(key)
		return body, nil
	}

	result, err := c.fetcher.Fetch(ctx, fetcher.NewFetchParam(pageURL, c.userAgent), c.retryParam)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()

	body := string(result.Body())
	// FileCache records its own write failures
	_ = c.cache.Put(key, body)
	return body, nil
}

// Stats reports cache hits and successful network fetches so far.
func (c *CachingFetcher) Stats() (hits int, fetches int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.fetches
}
