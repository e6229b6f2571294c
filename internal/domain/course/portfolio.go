package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Portfolio struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	ProjectURL  string    `gorm:"column:project_url" json:"project_url,omitempty"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Portfolio) TableName() string { return "portfolio" }

func (p *Portfolio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Progress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_material;column:user_id" json:"user_id"`
	MaterialID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_material;column:material_id" json:"material_id"`
	IsCompleted bool       `gorm:"not null;column:is_completed" json:"is_completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Progress) TableName() string { return "user_progress" }

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
