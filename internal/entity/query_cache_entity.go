package entity

import (
	"time"

	"github.com/google/uuid"
)

type QueryCacheEntry struct {
	Id        uuid.UUID
	Question  string
	Embedding []float32
	SqlQuery  string
	CreatedAt time.Time
}

// ScoredCacheEntry is a cache entry annotated with its cosine distance
// to a lookup embedding.
type ScoredCacheEntry struct {
	QueryCacheEntry
	Distance float64
}
