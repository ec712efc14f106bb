package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache memoizes question embeddings so that repeated lookups
// of the same text skip the embedding provider round trip.
type EmbeddingCache struct {
	cache *cache.Cache
}

func NewEmbeddingCache() *EmbeddingCache {
	// Default expiration of 1 hour, expired items purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &EmbeddingCache{
		cache: c,
	}
}

func (r *EmbeddingCache) Save(text string, embedding []float32) {
	r.cache.Set(text, embedding, cache.DefaultExpiration)
}

func (r *EmbeddingCache) Get(text string) ([]float32, bool) {
	if x, found := r.cache.Get(text); found {
		return x.([]float32), true
	}
	return nil, false
}
