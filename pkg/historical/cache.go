package historical

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/socintel/socintel/pkg/score"
)

//cachedRepo keeps a read-through LRU in front of another Repository.
//Absent records are cached as nil so repeated lookups for unknown IOCs
//skip the store as well.
type cachedRepo struct {
	inner Repository
	cache *lru.Cache[string, *score.HistoricalStats]
}

//NewCachedRepository wraps a Repository with an LRU read cache of the
//given size
func NewCachedRepository(inner Repository, size int) (Repository, error) {
	cache, err := lru.New[string, *score.HistoricalStats](size)
	if err != nil {
		return nil, err
	}
	return &cachedRepo{
		inner: inner,
		cache: cache,
	}, nil
}

func (c *cachedRepo) Get(ioc string) (*score.HistoricalStats, error) {
	if stats, hit := c.cache.Get(ioc); hit {
		return stats, nil
	}
	stats, err := c.inner.Get(ioc)
	if err != nil {
		return nil, err
	}
	c.cache.Add(ioc, stats)
	return stats, nil
}

func (c *cachedRepo) Record(ioc string, truePositive bool) error {
	// writes go straight through; the stale read entry must not survive
	c.cache.Remove(ioc)
	return c.inner.Record(ioc, truePositive)
}
