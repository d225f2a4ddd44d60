package analyzer

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/repodoc/internal/interfaces"
	"github.com/ternarybob/repodoc/internal/models"
)

// defaultCacheTTL bounds how long an analysis context is reused before the
// repository is re-analyzed. Expiry is the only invalidation mechanism.
const defaultCacheTTL = 24 * time.Hour

// Cache is a TTL-bounded analysis cache keyed by repository id. Construct
// once at process start and inject; there is no package-level instance.
type Cache struct {
	cache  *ristretto.Cache[string, *models.RepositoryAnalysisContext]
	ttl    time.Duration
	logger arbor.ILogger
}

// Compile-time assertion: Cache implements AnalysisCache.
var _ interfaces.AnalysisCache = (*Cache)(nil)

// NewCache creates an analysis cache with the given TTL. A non-positive
// TTL falls back to 24 hours.
func NewCache(ttl time.Duration, logger arbor.ILogger) (*Cache, error) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, *models.RepositoryAnalysisContext]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Cache{
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Get returns the cached analysis context for a repository, if present and
// not expired.
func (c *Cache) Get(repositoryID string) (*models.RepositoryAnalysisContext, bool) {
	value, found := c.cache.Get(repositoryID)
	if !found || value == nil {
		return nil, false
	}
	return value, true
}

// Set stores an analysis context under the repository id for the cache TTL.
func (c *Cache) Set(repositoryID string, analysisCtx *models.RepositoryAnalysisContext) {
	c.cache.SetWithTTL(repositoryID, analysisCtx, 1, c.ttl)
	c.cache.Wait()
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.cache.Clear()
}

// Close releases the cache's internal resources.
func (c *Cache) Close() {
	c.cache.Close()
}
