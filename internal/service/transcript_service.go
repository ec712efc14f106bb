package service

import (
	"context"
	"encoding/json"
	"time"

	"text2sql-be/internal/entity"
	"text2sql-be/internal/repository/unitofwork"
	"text2sql-be/pkg/pipeline"

	"github.com/google/uuid"
)

// transcriptService adapts the unit-of-work persistence layer to the
// pipeline's Transcript contract. Appending a message also bumps the
// session's updated_at so session lists sort by recent activity.
type transcriptService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTranscriptService(uowFactory unitofwork.RepositoryFactory) pipeline.Transcript {
	return &transcriptService{
		uowFactory: uowFactory,
	}
}

func (s *transcriptService) Append(ctx context.Context, sessionId uuid.UUID, msg pipeline.Message) error {
	record := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: sessionId,
		Role:          msg.Role,
		Content:       msg.Content,
		SqlQuery:      msg.Sql,
		CreatedAt:     time.Now(),
	}

	if msg.Result != nil {
		data, err := json.Marshal(msg.Result)
		if err != nil {
			return err
		}
		record.Data = data
	}
	if msg.Chart != nil {
		spec, err := json.Marshal(msg.Chart)
		if err != nil {
			return err
		}
		record.ChartSpec = spec
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &record); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Touch(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}
