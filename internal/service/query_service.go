package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"text2sql-be/internal/dto"
	"text2sql-be/internal/entity"
	"text2sql-be/internal/pkg/logger"
	"text2sql-be/internal/repository/specification"
	"text2sql-be/internal/repository/unitofwork"
	"text2sql-be/pkg/pipeline"

	"github.com/google/uuid"
)

var ErrSavedQueryNotFound = fmt.Errorf("saved query not found")

type IQueryService interface {
	Ask(ctx context.Context, userId, sessionId uuid.UUID, req *dto.AskRequest) (*pipeline.Result, error)
	AskStream(ctx context.Context, userId, sessionId uuid.UUID, req *dto.AskRequest) (<-chan pipeline.Event, error)

	SaveQuery(ctx context.Context, userId uuid.UUID, req *dto.SaveQueryRequest) (*dto.SavedQueryResponse, error)
	ListQueries(ctx context.Context, userId uuid.UUID) ([]*dto.SavedQueryResponse, error)
	DeleteQuery(ctx context.Context, userId uuid.UUID, queryId uuid.UUID) error

	Train(ctx context.Context, req *dto.TrainRequest) error
	ClearCache(ctx context.Context) (*dto.ClearCacheResponse, error)
}

type queryService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   *pipeline.Pipeline
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewQueryService(
	uowFactory unitofwork.RepositoryFactory,
	pl *pipeline.Pipeline,
	publisher IPublisherService,
	log logger.ILogger,
) IQueryService {
	return &queryService{
		uowFactory: uowFactory,
		pipeline:   pl,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *queryService) Ask(ctx context.Context, userId, sessionId uuid.UUID, req *dto.AskRequest) (*pipeline.Result, error) {
	if err := s.checkSessionOwnership(ctx, userId, sessionId); err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, s.buildRequest(sessionId, req))
}

func (s *queryService) AskStream(ctx context.Context, userId, sessionId uuid.UUID, req *dto.AskRequest) (<-chan pipeline.Event, error) {
	if err := s.checkSessionOwnership(ctx, userId, sessionId); err != nil {
		return nil, err
	}
	return s.pipeline.Stream(ctx, s.buildRequest(sessionId, req)), nil
}

func (s *queryService) buildRequest(sessionId uuid.UUID, req *dto.AskRequest) pipeline.Request {
	history := make([]pipeline.Turn, len(req.History))
	for i, turn := range req.History {
		history[i] = pipeline.Turn{Role: turn.Role, Content: turn.Content}
	}
	return pipeline.Request{
		SessionId: sessionId,
		Question:  req.Question,
		History:   history,
	}
}

func (s *queryService) checkSessionOwnership(ctx context.Context, userId, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	return nil
}

func (s *queryService) SaveQuery(ctx context.Context, userId uuid.UUID, req *dto.SaveQueryRequest) (*dto.SavedQueryResponse, error) {
	saved := entity.SavedQuery{
		Id:        uuid.New(),
		UserId:    userId,
		Question:  req.Question,
		SqlQuery:  req.SqlQuery,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SavedQueryRepository().Create(ctx, &saved); err != nil {
		return nil, err
	}

	// Saving a query also queues it for cache training so the next
	// similar question hits the cache.
	payload, err := json.Marshal(dto.TrainQueryMessage{
		Question:     saved.Question,
		SqlQuery:     saved.SqlQuery,
		SavedQueryId: &saved.Id,
	})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("QueryService", "Failed to queue saved query for training", map[string]interface{}{
			"saved_query_id": saved.Id.String(),
			"error":          err.Error(),
		})
	}

	return toSavedQueryResponse(&saved), nil
}

func (s *queryService) ListQueries(ctx context.Context, userId uuid.UUID) ([]*dto.SavedQueryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	queries, err := uow.SavedQueryRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SavedQueryResponse, len(queries))
	for i, q := range queries {
		res[i] = toSavedQueryResponse(q)
	}
	return res, nil
}

func (s *queryService) DeleteQuery(ctx context.Context, userId uuid.UUID, queryId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	query, err := uow.SavedQueryRepository().FindOne(ctx,
		specification.ByID{ID: queryId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if query == nil {
		return ErrSavedQueryNotFound
	}
	return uow.SavedQueryRepository().Delete(ctx, queryId)
}

func (s *queryService) Train(ctx context.Context, req *dto.TrainRequest) error {
	payload, err := json.Marshal(dto.TrainQueryMessage{
		Question: req.Question,
		SqlQuery: req.SqlQuery,
	})
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, payload)
}

func (s *queryService) ClearCache(ctx context.Context) (*dto.ClearCacheResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	deleted, err := uow.QueryCacheRepository().Clear(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Info("QueryService", "Query cache cleared", map[string]interface{}{
		"deleted_count": deleted,
	})
	return &dto.ClearCacheResponse{DeletedCount: deleted}, nil
}

func toSavedQueryResponse(q *entity.SavedQuery) *dto.SavedQueryResponse {
	return &dto.SavedQueryResponse{
		Id:        q.Id,
		Question:  q.Question,
		SqlQuery:  q.SqlQuery,
		IsTrained: q.IsTrained,
		CreatedAt: q.CreatedAt,
	}
}
