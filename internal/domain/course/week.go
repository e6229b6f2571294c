package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CommonWeekNumber is reserved for materials shared across the whole course.
const CommonWeekNumber = 0

type WeekStatus string

const (
	WeekStatusCommon     WeekStatus = "common"
	WeekStatusCompleted  WeekStatus = "completed"
	WeekStatusInProgress WeekStatus = "in_progress"
	WeekStatusUpcoming   WeekStatus = "upcoming"
)

type Week struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	WeekNumber  int                         `gorm:"not null;uniqueIndex;column:week_number" json:"week_number"`
	Title       string                      `gorm:"not null;column:title" json:"title"`
	Description string                      `gorm:"column:description" json:"description,omitempty"`
	IsCurrent   bool                        `gorm:"not null;column:is_current" json:"is_current"`
	Resources   datatypes.JSONSlice[string] `gorm:"column:resources" json:"resources,omitempty"`
	CreatedAt   time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Week) TableName() string { return "week" }

func (w *Week) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// StatusRelativeTo derives a week's progress label from the current week number.
// current < 0 means no week is marked current.
func (w *Week) StatusRelativeTo(current int) WeekStatus {
	switch {
	case w.WeekNumber == CommonWeekNumber:
		return WeekStatusCommon
	case current < 0:
		return WeekStatusUpcoming
	case w.WeekNumber == current:
		return WeekStatusInProgress
	case w.WeekNumber < current:
		return WeekStatusCompleted
	default:
		return WeekStatusUpcoming
	}
}
