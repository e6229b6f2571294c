package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Discussion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Content     string    `gorm:"not null;column:content" json:"content"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	AuthorEmail string    `gorm:"column:author_email" json:"author_email"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Discussion) TableName() string { return "discussion" }

func (d *Discussion) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Comment belongs to exactly one of a discussion or a portfolio.
type Comment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content      string     `gorm:"not null;column:content" json:"content"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	AuthorName   string     `gorm:"column:author_name" json:"author_name"`
	DiscussionID *uuid.UUID `gorm:"type:uuid;index;column:discussion_id" json:"discussion_id,omitempty"`
	PortfolioID  *uuid.UUID `gorm:"type:uuid;index;column:portfolio_id" json:"portfolio_id,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (Comment) TableName() string { return "comment" }

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
