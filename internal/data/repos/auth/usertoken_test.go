package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/course-portal-backend/internal/data/repos/testutil"
	types "github.com/yungbote/course-portal-backend/internal/domain"
)

func TestUserTokenRepo(t *testing.T) {
	db, dbc := testutil.DB(t)
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, db, dbc, "usertokenrepo@example.com", types.RoleStudent, types.StatusApproved)

	makeToken := func(access, refresh string, expires time.Time) *types.UserToken {
		return &types.UserToken{
			ID:           uuid.New(),
			UserID:       u.ID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    expires,
		}
	}

	t1 := makeToken("access-1", "refresh-1", time.Now().Add(time.Hour))
	t2 := makeToken("access-2", "refresh-2", time.Now().Add(-time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t1, t2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByAccessTokens(dbc, []string{t1.AccessToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByAccessTokens: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByRefreshTokens(dbc, []string{t1.RefreshToken}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByRefreshTokens: err=%v len=%d", err, len(rows))
	}

	if n, err := repo.FullDeleteExpired(dbc, time.Now()); err != nil || n != 1 {
		t.Fatalf("FullDeleteExpired: err=%v n=%d", err, n)
	}

	if err := repo.SoftDeleteByIDs(dbc, []uuid.UUID{t1.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByAccessTokens(dbc, []string{t1.AccessToken}); err != nil || len(rows) != 0 {
		t.Fatalf("GetByAccessTokens after delete: err=%v len=%d", err, len(rows))
	}
}
