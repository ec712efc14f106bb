package contract

import (
	"context"

	"text2sql-be/internal/entity"
)

type QueryCacheRepository interface {
	Create(ctx context.Context, entry *entity.QueryCacheEntry) error
	// Nearest returns the single closest entry by cosine distance,
	// or nil when the cache is empty.
	Nearest(ctx context.Context, embedding []float32) (*entity.ScoredCacheEntry, error)
	Clear(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}
