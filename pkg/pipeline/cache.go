package pipeline

import (
	"context"

	"text2sql-be/internal/pkg/logger"
	"text2sql-be/internal/repository/contract"
	"text2sql-be/internal/repository/memory"
	"text2sql-be/pkg/embedding"
)

// semanticCache answers lookups against the pgvector-backed question
// cache. Embeddings for repeated question texts are memoized in-memory
// with a bounded TTL so identical lookups skip the provider round trip.
type semanticCache struct {
	embedder  embedding.EmbeddingProvider
	repo      contract.QueryCacheRepository
	memo      *memory.EmbeddingCache
	threshold float64
	logger    logger.ILogger
}

func NewSemanticCache(
	embedder embedding.EmbeddingProvider,
	repo contract.QueryCacheRepository,
	memo *memory.EmbeddingCache,
	threshold float64,
	log logger.ILogger,
) SemanticCache {
	return &semanticCache{
		embedder:  embedder,
		repo:      repo,
		memo:      memo,
		threshold: threshold,
		logger:    log,
	}
}

// Lookup fails open by design: embedding or vector-store trouble must
// degrade to a miss so the pipeline can still generate fresh SQL.
func (c *semanticCache) Lookup(ctx context.Context, question string) *CacheHit {
	vec, ok := c.memo.Get(question)
	if !ok {
		var err error
		vec, err = c.embedder.Generate(ctx, question)
		if err != nil {
			c.logger.Warn("SemanticCache", "Embedding failed, treating as miss", map[string]interface{}{
				"error": err.Error(),
			})
			return nil
		}
		c.memo.Save(question, vec)
	}

	scored, err := c.repo.Nearest(ctx, vec)
	if err != nil {
		c.logger.Warn("SemanticCache", "Nearest-neighbor lookup failed, treating as miss", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if scored == nil {
		return nil
	}

	if scored.Distance > c.threshold {
		c.logger.Debug("SemanticCache", "Nearest entry above distance threshold", map[string]interface{}{
			"distance":  scored.Distance,
			"threshold": c.threshold,
		})
		return nil
	}

	c.logger.Info("SemanticCache", "Cache hit", map[string]interface{}{
		"question": scored.Question,
		"distance": scored.Distance,
	})
	return &CacheHit{
		Question: scored.Question,
		Sql:      scored.SqlQuery,
		Distance: scored.Distance,
	}
}
