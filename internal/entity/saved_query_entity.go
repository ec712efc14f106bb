package entity

import (
	"time"

	"github.com/google/uuid"
)

type SavedQuery struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Question  string
	SqlQuery  string
	IsTrained bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
