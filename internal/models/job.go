package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Job struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title       string                      `gorm:"type:text;not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Skills      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"skills"`
	CompanyID   string                      `gorm:"type:text;not null;index" json:"company_id"`
	CreatedBy   uuid.UUID                   `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
