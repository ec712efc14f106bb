package unitofwork

import (
	"context"

	"text2sql-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	QueryCacheRepository() contract.QueryCacheRepository
	SavedQueryRepository() contract.SavedQueryRepository
}
