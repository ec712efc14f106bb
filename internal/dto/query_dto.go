package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveQueryRequest struct {
	Question string `json:"question" validate:"required"`
	SqlQuery string `json:"sql_query" validate:"required"`
}

type SavedQueryResponse struct {
	Id        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	SqlQuery  string    `json:"sql_query"`
	IsTrained bool      `json:"is_trained"`
	CreatedAt time.Time `json:"created_at"`
}

type TrainRequest struct {
	Question string `json:"question" validate:"required"`
	SqlQuery string `json:"sql_query" validate:"required"`
}

// TrainQueryMessage is the event payload published for asynchronous
// cache training.
type TrainQueryMessage struct {
	Question     string     `json:"question"`
	SqlQuery     string     `json:"sql_query"`
	SavedQueryId *uuid.UUID `json:"saved_query_id,omitempty"`
}

type ClearCacheResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}
