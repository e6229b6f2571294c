package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
)

func SeedUser(tb testing.TB, conn *gorm.DB, dbc dbctx.Context, email, role, status string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Role:      role,
		Status:    status,
	}
	if err := dbc.DB(conn).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedWeek(tb testing.TB, conn *gorm.DB, dbc dbctx.Context, number int, title string) *types.Week {
	tb.Helper()
	w := &types.Week{ID: uuid.New(), WeekNumber: number, Title: title}
	if err := dbc.DB(conn).Create(w).Error; err != nil {
		tb.Fatalf("seed week: %v", err)
	}
	return w
}

func SeedMaterial(tb testing.TB, conn *gorm.DB, dbc dbctx.Context, weekID uuid.UUID, title string, sortOrder int, visible bool) *types.Material {
	tb.Helper()
	m := &types.Material{
		ID:        uuid.New(),
		WeekID:    weekID,
		Title:     title,
		Type:      types.MaterialTypeLink,
		IsVisible: visible,
		SortOrder: sortOrder,
	}
	if err := dbc.DB(conn).Create(m).Error; err != nil {
		tb.Fatalf("seed material: %v", err)
	}
	return m
}

// As returns a copy of dbc acting as u.
func As(dbc dbctx.Context, u *types.User) dbctx.Context {
	dbc.Ctx = ctxutil.WithActor(dbc.Ctx, ctxutil.Actor{UserID: u.ID, Role: u.Role, Status: u.Status})
	return dbc
}
