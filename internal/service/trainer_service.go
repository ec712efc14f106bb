package service

import (
	"context"
	"encoding/json"
	"time"

	"text2sql-be/internal/dto"
	"text2sql-be/internal/entity"
	"text2sql-be/internal/pkg/logger"
	"text2sql-be/internal/repository/specification"
	"text2sql-be/internal/repository/unitofwork"
	"text2sql-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// ITrainerService consumes train-query events: it embeds the question
// and appends the (question, sql) pair to the semantic cache.
type ITrainerService interface {
	Consume(ctx context.Context) error
}

type trainerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewTrainerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) ITrainerService {
	return &trainerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (ts *trainerService) Consume(ctx context.Context) error {
	messages, err := ts.pubSub.Subscribe(ctx, ts.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ts.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ts *trainerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.TrainQueryMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ts.logger.Error("TrainerService", "Failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if payload.Question == "" || payload.SqlQuery == "" {
		ts.logger.Warn("TrainerService", "Dropping empty training payload", nil)
		msg.Ack()
		return
	}

	vec, err := ts.embeddingProvider.Generate(ctx, payload.Question)
	if err != nil {
		ts.logger.Error("TrainerService", "Embedding failed", map[string]interface{}{
			"question": payload.Question,
			"error":    err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	entry := entity.QueryCacheEntry{
		Id:        uuid.New(),
		Question:  payload.Question,
		Embedding: vec,
		SqlQuery:  payload.SqlQuery,
		CreatedAt: time.Now(),
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		ts.logger.Error("TrainerService", "Failed to begin transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.QueryCacheRepository().Create(ctx, &entry); err != nil {
		ts.logger.Error("TrainerService", "Failed to create cache entry", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	if payload.SavedQueryId != nil {
		saved, err := uow.SavedQueryRepository().FindOne(ctx, specification.ByID{ID: *payload.SavedQueryId})
		if err != nil {
			ts.logger.Error("TrainerService", "Failed to load saved query", map[string]interface{}{
				"saved_query_id": payload.SavedQueryId.String(),
				"error":          err.Error(),
			})
			msg.Nack()
			return
		}
		if saved != nil {
			saved.IsTrained = true
			if err := uow.SavedQueryRepository().Update(ctx, saved); err != nil {
				ts.logger.Error("TrainerService", "Failed to mark saved query trained", map[string]interface{}{
					"saved_query_id": payload.SavedQueryId.String(),
					"error":          err.Error(),
				})
				msg.Nack()
				return
			}
		}
	}

	if err := uow.Commit(); err != nil {
		ts.logger.Error("TrainerService", "Failed to commit transaction", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}

	ts.logger.Info("TrainerService", "Cache entry trained", map[string]interface{}{
		"question": payload.Question,
	})
	msg.Ack()
}
