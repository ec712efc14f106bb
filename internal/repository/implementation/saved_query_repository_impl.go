package implementation

import (
	"context"
	"errors"

	"text2sql-be/internal/entity"
	"text2sql-be/internal/mapper"
	"text2sql-be/internal/model"
	"text2sql-be/internal/repository/contract"
	"text2sql-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SavedQueryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QueryMapper
}

func NewSavedQueryRepository(db *gorm.DB) contract.SavedQueryRepository {
	return &SavedQueryRepositoryImpl{
		db:     db,
		mapper: mapper.NewQueryMapper(),
	}
}

func (r *SavedQueryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SavedQueryRepositoryImpl) Create(ctx context.Context, query *entity.SavedQuery) error {
	m := r.mapper.SavedQueryToModel(query)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*query = *r.mapper.SavedQueryToEntity(m)
	return nil
}

func (r *SavedQueryRepositoryImpl) Update(ctx context.Context, query *entity.SavedQuery) error {
	m := r.mapper.SavedQueryToModel(query)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*query = *r.mapper.SavedQueryToEntity(m)
	return nil
}

func (r *SavedQueryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.SavedQuery{}, id).Error
}

func (r *SavedQueryRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SavedQuery, error) {
	var m model.SavedQuery
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SavedQueryToEntity(&m), nil
}

func (r *SavedQueryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SavedQuery, error) {
	var models []*model.SavedQuery
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SavedQuery, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SavedQueryToEntity(m)
	}
	return entities, nil
}

func (r *SavedQueryRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SavedQuery{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
