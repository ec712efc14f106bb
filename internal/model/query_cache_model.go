package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// QueryCacheEntry pairs a previously answered question with its validated
// SQL. Lookup is nearest-neighbor over the question embedding.
type QueryCacheEntry struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Question  string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	SqlQuery  string          `gorm:"type:text;not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (QueryCacheEntry) TableName() string {
	return "query_cache_entries"
}
