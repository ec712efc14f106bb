package contract

import (
	"context"

	"text2sql-be/internal/entity"
	"text2sql-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SavedQueryRepository interface {
	Create(ctx context.Context, query *entity.SavedQuery) error
	Update(ctx context.Context, query *entity.SavedQuery) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SavedQuery, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SavedQuery, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
