package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MaterialType string

const (
	MaterialTypeVideo  MaterialType = "video"
	MaterialTypeText   MaterialType = "text"
	MaterialTypePDF    MaterialType = "pdf"
	MaterialTypeLink   MaterialType = "link"
	MaterialTypeImage  MaterialType = "image"
	MaterialTypeHTML   MaterialType = "html"
	MaterialTypeAITool MaterialType = "ai_tool"
)

var MaterialTypes = []MaterialType{
	MaterialTypeVideo,
	MaterialTypeText,
	MaterialTypePDF,
	MaterialTypeLink,
	MaterialTypeImage,
	MaterialTypeHTML,
	MaterialTypeAITool,
}

func (t MaterialType) Valid() bool {
	for _, known := range MaterialTypes {
		if t == known {
			return true
		}
	}
	return false
}

// RequiresUpload reports whether the primary content is an uploaded file rather than a URL.
func (t MaterialType) RequiresUpload() bool {
	switch t {
	case MaterialTypePDF, MaterialTypeImage, MaterialTypeVideo, MaterialTypeHTML:
		return true
	default:
		return false
	}
}

type Material struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	WeekID      uuid.UUID                   `gorm:"type:uuid;not null;index;column:week_id" json:"week_id"`
	Week        *Week                       `gorm:"constraint:OnDelete:CASCADE;foreignKey:WeekID;references:ID" json:"weeks,omitempty"`
	Title       string                      `gorm:"not null;column:title" json:"title"`
	Type        MaterialType                `gorm:"not null;column:type" json:"type"`
	ContentURL  string                      `gorm:"column:content_url" json:"content_url,omitempty"`
	Description string                      `gorm:"column:description" json:"description,omitempty"`
	Summary     string                      `gorm:"column:summary" json:"summary,omitempty"`
	MediaURLs   datatypes.JSONSlice[string] `gorm:"column:media_urls" json:"media_urls,omitempty"`
	IsVisible   bool                        `gorm:"not null;column:is_visible" json:"is_visible"`
	SortOrder   int                         `gorm:"not null;index;column:sort_order" json:"sort_order"`
	CreatedAt   time.Time                   `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Material) TableName() string { return "material" }

func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// WeekTitle is empty when the week was not joined.
func (m *Material) WeekTitle() string {
	if m == nil || m.Week == nil {
		return ""
	}
	return m.Week.Title
}

// Clone copies the record, including the joined week, so callers can renumber freely.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	cp := *m
	if m.Week != nil {
		w := *m.Week
		cp.Week = &w
	}
	if m.MediaURLs != nil {
		cp.MediaURLs = append(datatypes.JSONSlice[string]{}, m.MediaURLs...)
	}
	return &cp
}
