package domain

import (
	"github.com/yungbote/course-portal-backend/internal/domain/auth"
	"github.com/yungbote/course-portal-backend/internal/domain/course"
	"github.com/yungbote/course-portal-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Week = course.Week
type WeekStatus = course.WeekStatus
type Material = course.Material
type MaterialType = course.MaterialType
type Notice = course.Notice
type Discussion = course.Discussion
type Comment = course.Comment
type Portfolio = course.Portfolio
type Progress = course.Progress

const (
	RoleInstructor = user.RoleInstructor
	RoleStudent    = user.RoleStudent

	StatusPending  = user.StatusPending
	StatusApproved = user.StatusApproved
	StatusRejected = user.StatusRejected

	CommonWeekNumber = course.CommonWeekNumber

	MaterialTypeVideo  = course.MaterialTypeVideo
	MaterialTypeText   = course.MaterialTypeText
	MaterialTypePDF    = course.MaterialTypePDF
	MaterialTypeLink   = course.MaterialTypeLink
	MaterialTypeImage  = course.MaterialTypeImage
	MaterialTypeHTML   = course.MaterialTypeHTML
	MaterialTypeAITool = course.MaterialTypeAITool
)

// ValidStatus reports whether s is a known account status.
func ValidStatus(s string) bool { return user.ValidStatus(s) }

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&UserToken{},
		&Week{},
		&Material{},
		&Notice{},
		&Discussion{},
		&Comment{},
		&Portfolio{},
		&Progress{},
	}
}
