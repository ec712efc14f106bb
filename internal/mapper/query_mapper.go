package mapper

import (
	"time"

	"text2sql-be/internal/entity"
	"text2sql-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type QueryMapper struct{}

func NewQueryMapper() *QueryMapper {
	return &QueryMapper{}
}

func (m *QueryMapper) CacheEntryToEntity(e *model.QueryCacheEntry) *entity.QueryCacheEntry {
	if e == nil {
		return nil
	}

	return &entity.QueryCacheEntry{
		Id:        e.Id,
		Question:  e.Question,
		Embedding: e.Embedding.Slice(),
		SqlQuery:  e.SqlQuery,
		CreatedAt: e.CreatedAt,
	}
}

func (m *QueryMapper) CacheEntryToModel(e *entity.QueryCacheEntry) *model.QueryCacheEntry {
	if e == nil {
		return nil
	}

	return &model.QueryCacheEntry{
		Id:        e.Id,
		Question:  e.Question,
		Embedding: pgvector.NewVector(e.Embedding),
		SqlQuery:  e.SqlQuery,
		CreatedAt: e.CreatedAt,
	}
}

func (m *QueryMapper) SavedQueryToEntity(q *model.SavedQuery) *entity.SavedQuery {
	if q == nil {
		return nil
	}

	var deletedAt *time.Time
	if q.DeletedAt.Valid {
		t := q.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !q.UpdatedAt.IsZero() {
		t := q.UpdatedAt
		updatedAt = &t
	}

	return &entity.SavedQuery{
		Id:        q.Id,
		UserId:    q.UserId,
		Question:  q.Question,
		SqlQuery:  q.SqlQuery,
		IsTrained: q.IsTrained,
		CreatedAt: q.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: q.DeletedAt.Valid,
	}
}

func (m *QueryMapper) SavedQueryToModel(q *entity.SavedQuery) *model.SavedQuery {
	if q == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if q.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *q.DeletedAt, Valid: true}
	} else if q.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if q.UpdatedAt != nil {
		updatedAt = *q.UpdatedAt
	}

	return &model.SavedQuery{
		Id:        q.Id,
		UserId:    q.UserId,
		Question:  q.Question,
		SqlQuery:  q.SqlQuery,
		IsTrained: q.IsTrained,
		CreatedAt: q.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
