package implementation

import (
	"context"
	"errors"

	"text2sql-be/internal/entity"
	"text2sql-be/internal/mapper"
	"text2sql-be/internal/model"
	"text2sql-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type QueryCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QueryMapper
}

func NewQueryCacheRepository(db *gorm.DB) contract.QueryCacheRepository {
	return &QueryCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewQueryMapper(),
	}
}

func (r *QueryCacheRepositoryImpl) Create(ctx context.Context, entry *entity.QueryCacheEntry) error {
	m := r.mapper.CacheEntryToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.CacheEntryToEntity(m)
	return nil
}

// Nearest fetches the closest cached question by cosine distance.
// The threshold decision belongs to the caller, not the repository.
func (r *QueryCacheRepositoryImpl) Nearest(ctx context.Context, embedding []float32) (*entity.ScoredCacheEntry, error) {
	type result struct {
		model.QueryCacheEntry
		Distance float64
	}
	var res result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("query_cache_entries").
		Select("query_cache_entries.*, embedding <=> ? AS distance", queryVector).
		Order("distance ASC").
		Limit(1).
		Scan(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if res.Id == uuid.Nil {
		// Scan leaves the struct zeroed when the table is empty.
		return nil, nil
	}

	return &entity.ScoredCacheEntry{
		QueryCacheEntry: *r.mapper.CacheEntryToEntity(&res.QueryCacheEntry),
		Distance:        res.Distance,
	}, nil
}

func (r *QueryCacheRepositoryImpl) Clear(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.QueryCacheEntry{})
	return tx.RowsAffected, tx.Error
}

func (r *QueryCacheRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.QueryCacheEntry{}).Count(&count).Error
	return count, err
}
