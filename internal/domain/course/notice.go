package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"not null;column:title" json:"title"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	AuthorID  uuid.UUID `gorm:"type:uuid;index;column:author_id" json:"author_id"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Notice) TableName() string { return "notice" }

func (n *Notice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
