package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	FirstMessage string `json:"first_message" validate:"required"`
}

type CreateSessionResponse struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type GetAllSessionsResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Pinned    bool       `json:"pinned"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID       `json:"id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	SqlQuery  *string         `json:"sql_query,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	ChartSpec json.RawMessage `json:"chart_spec,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type UpdateSessionTitleRequest struct {
	Title string `json:"title" validate:"required,max=120"`
}

type AskRequest struct {
	Question string       `json:"question" validate:"required"`
	History  []HistoryDTO `json:"history" validate:"max=50,dive"`
	Stream   bool         `json:"stream"`
}

type HistoryDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}
