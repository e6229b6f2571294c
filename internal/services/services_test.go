package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/course-portal-backend/internal/data/repos"
	"github.com/yungbote/course-portal-backend/internal/data/repos/testutil"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
)

type fixture struct {
	db  *gorm.DB
	dbc dbctx.Context

	users      repos.UserRepo
	tokens     repos.UserTokenRepo
	weeks      repos.WeekRepo
	materials  repos.MaterialRepo
	notices    repos.NoticeRepo
	discussion repos.DiscussionRepo
	comments   repos.CommentRepo
	portfolios repos.PortfolioRepo
	progress   repos.ProgressRepo
}

// newFixture binds the repos to the test transaction when there is one, so
// services that open their own dbctx still see seeded rows.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, dbc := testutil.DB(t)
	conn := db
	if dbc.Tx != nil {
		conn = dbc.Tx
	}
	log := testutil.Logger(t)
	return &fixture{
		db:         conn,
		dbc:        dbc,
		users:      repos.NewUserRepo(conn, log),
		tokens:     repos.NewUserTokenRepo(conn, log),
		weeks:      repos.NewWeekRepo(conn, log),
		materials:  repos.NewMaterialRepo(conn, log),
		notices:    repos.NewNoticeRepo(conn, log),
		discussion: repos.NewDiscussionRepo(conn, log),
		comments:   repos.NewCommentRepo(conn, log),
		portfolios: repos.NewPortfolioRepo(conn, log),
		progress:   repos.NewProgressRepo(conn, log),
	}
}

func (f *fixture) user(t *testing.T, email, role, status string) *types.User {
	t.Helper()
	return testutil.SeedUser(t, f.db, f.dbc, email, role, status)
}

func (f *fixture) as(u *types.User) dbctx.Context {
	return testutil.As(f.dbc, u)
}

type recordingNotifier struct {
	got []*types.Notice
}

func (r *recordingNotifier) NoticeCreated(_ context.Context, n *types.Notice) {
	r.got = append(r.got, n)
}
