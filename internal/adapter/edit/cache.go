package edit

import (
	"context"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/cache"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/soil"
)

// CachedFetcher wraps a Fetcher with an in-memory LRU cache. ESD documents
// change rarely, so cached entries are kept until evicted by capacity.
type CachedFetcher struct {
	inner   Fetcher
	cache   *cache.LRU[string, soil.EcoSite]
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a fetcher.
func NewCachedFetcher(inner Fetcher, maxEntries int, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   cache.NewLRU[string, soil.EcoSite](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedFetcher) EcoSite(ctx context.Context, mlra, ecoclassID string) (soil.EcoSite, error) {
	key := mlra + "/" + ecoclassID
	if site, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("edit", "hit").Inc()
		return site, nil
	}
	c.metrics.CacheLookups.WithLabelValues("edit", "miss").Inc()

	site, err := c.inner.EcoSite(ctx, mlra, ecoclassID)
	if err != nil {
		return site, err
	}
	// Only cache documents that actually carry a name so partial upstream
	// responses can be retried.
	if site.Name != "" {
		c.cache.Put(key, site)
	}
	return site, nil
}
