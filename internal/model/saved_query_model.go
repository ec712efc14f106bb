package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SavedQuery struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Question  string         `gorm:"type:text;not null"`
	SqlQuery  string         `gorm:"type:text;not null"`
	IsTrained bool           `gorm:"not null;default:false"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (SavedQuery) TableName() string {
	return "saved_queries"
}
