package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"text2sql-be/internal/constant"
	"text2sql-be/internal/dto"
	"text2sql-be/internal/entity"
	"text2sql-be/internal/pkg/logger"
	"text2sql-be/internal/repository/specification"
	"text2sql-be/internal/repository/unitofwork"
	"text2sql-be/pkg/llm"

	"github.com/google/uuid"
)

const sessionListLimit = 50

var ErrSessionNotFound = fmt.Errorf("chat session not found")

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	UpdateTitle(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UpdateSessionTitleRequest) error
	TogglePin(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (bool, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type chatService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		logger:      log,
	}
}

func (s *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	title := s.generateTitle(ctx, req.FirstMessage)

	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{
		Id:    session.Id,
		Title: session.Title,
	}, nil
}

// generateTitle asks the model for a 3-5 word session title; the first
// words of the message are the fallback when the model misbehaves.
func (s *chatService) generateTitle(ctx context.Context, firstMessage string) string {
	prompt := fmt.Sprintf(constant.SessionTitlePromptTemplate, firstMessage)
	title, err := s.llmProvider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.SessionTitleSystemMessage},
		{Role: constant.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		s.logger.Warn("ChatService", "Auto title generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackTitle(firstMessage)
	}

	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSpace(title)
	if title == "" {
		return fallbackTitle(firstMessage)
	}

	if runes := []rune(title); len(runes) > constant.SessionTitleMaxLen {
		title = string(runes[:constant.SessionTitleMaxLen-3]) + "..."
	}
	return title
}

func fallbackTitle(firstMessage string) string {
	words := strings.Fields(firstMessage)
	if len(words) <= 4 {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:4], " ") + "..."
}

func (s *chatService) GetSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.PinnedFirst{},
		specification.Pagination{Limit: sessionListLimit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, session := range sessions {
		res[i] = &dto.GetAllSessionsResponse{
			Id:        session.Id,
			Title:     session.Title,
			Pinned:    session.Pinned,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		}
	}
	return res, nil
}

func (s *chatService) GetMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		res[i] = &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			SqlQuery:  msg.SqlQuery,
			Data:      msg.Data,
			ChartSpec: msg.ChartSpec,
			CreatedAt: msg.CreatedAt,
		}
	}
	return res, nil
}

func (s *chatService) UpdateTitle(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.UpdateSessionTitleRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	session.Title = req.Title
	return uow.ChatSessionRepository().Update(ctx, session)
}

func (s *chatService) TogglePin(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.ownedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return false, err
	}

	session.Pinned = !session.Pinned
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return false, err
	}
	return session.Pinned, nil
}

func (s *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Messages go first so a failure never leaves them orphaned.
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *chatService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
