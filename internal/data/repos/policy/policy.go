// Package policy expresses row-level write rules as query scopes. A write that the
// current actor is not allowed to make matches zero rows instead of failing, so
// callers must inspect RowsAffected and tell denial apart from a missing row.
package policy

import (
	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
)

// An empty status counts as approved, the same rule ctxutil.Actor.IsApproved applies.
const (
	actorApproved    = `(actor.status = ? OR COALESCE(actor.status, '') = '')`
	instructorExists = `EXISTS (SELECT 1 FROM "user" AS actor WHERE actor.id = ? AND actor.role = ? AND ` + actorApproved + ` AND actor.deleted_at IS NULL)`
	approvedExists   = `EXISTS (SELECT 1 FROM "user" AS actor WHERE actor.id = ? AND ` + actorApproved + ` AND actor.deleted_at IS NULL)`
)

func actorOf(dbc dbctx.Context) ctxutil.Actor {
	return ctxutil.ActorFrom(dbc.Ctx)
}

// Instructor limits a write to callers who are approved instructors.
func Instructor(tx *gorm.DB, dbc dbctx.Context) *gorm.DB {
	a := actorOf(dbc)
	return tx.Where(instructorExists, a.UserID, ctxutil.RoleInstructor, ctxutil.StatusApproved)
}

// OwnerOrInstructor limits a write to rows whose ownerColumn is the caller, or to instructors.
func OwnerOrInstructor(tx *gorm.DB, dbc dbctx.Context, ownerColumn string) *gorm.DB {
	a := actorOf(dbc)
	return tx.Where(
		"("+ownerColumn+" = ? OR "+instructorExists+")",
		a.UserID, a.UserID, ctxutil.RoleInstructor, ctxutil.StatusApproved,
	)
}

// Self limits a write to the caller's own row.
func Self(tx *gorm.DB, dbc dbctx.Context, idColumn string) *gorm.DB {
	return tx.Where(idColumn+" = ?", actorOf(dbc).UserID)
}

// Approved limits a write to callers whose account is approved.
func Approved(tx *gorm.DB, dbc dbctx.Context) *gorm.DB {
	a := actorOf(dbc)
	return tx.Where(approvedExists, a.UserID, ctxutil.StatusApproved)
}

// IsInstructor checks the instructor rule for inserts, which have no row to scope.
func IsInstructor(conn *gorm.DB, dbc dbctx.Context) (bool, error) {
	return check(conn, dbc, instructorExists, actorOf(dbc).UserID, ctxutil.RoleInstructor, ctxutil.StatusApproved)
}

func IsApproved(conn *gorm.DB, dbc dbctx.Context) (bool, error) {
	return check(conn, dbc, approvedExists, actorOf(dbc).UserID, ctxutil.StatusApproved)
}

func check(conn *gorm.DB, dbc dbctx.Context, predicate string, args ...interface{}) (bool, error) {
	var ok bool
	err := dbc.DB(conn).Raw("SELECT "+predicate, args...).Scan(&ok).Error
	return ok, err
}
