package course

import (
	"errors"
	"testing"

	"github.com/yungbote/course-portal-backend/internal/data/repos/testutil"
	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
)

func TestMaterialRepoListOrderAndVisibility(t *testing.T) {
	db, dbc := testutil.DB(t)
	repo := NewMaterialRepo(db, testutil.Logger(t))

	w := testutil.SeedWeek(t, db, dbc, 1, "Intro")
	testutil.SeedMaterial(t, db, dbc, w.ID, "second", 2, true)
	testutil.SeedMaterial(t, db, dbc, w.ID, "first", 1, true)
	testutil.SeedMaterial(t, db, dbc, w.ID, "hidden", 0, false)

	all, err := repo.List(dbc, true)
	if err != nil {
		t.Fatalf("List(all): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(all): want 3 got %d", len(all))
	}
	if all[0].Title != "hidden" || all[1].Title != "first" || all[2].Title != "second" {
		t.Fatalf("List(all): bad order %q %q %q", all[0].Title, all[1].Title, all[2].Title)
	}
	if all[1].Week == nil || all[1].Week.WeekNumber != 1 {
		t.Fatalf("List(all): week not joined: %+v", all[1].Week)
	}

	visible, err := repo.List(dbc, false)
	if err != nil {
		t.Fatalf("List(visible): %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("List(visible): want 2 got %d", len(visible))
	}
}

func TestMaterialRepoWritesAreScopedToInstructors(t *testing.T) {
	db, dbc := testutil.DB(t)
	repo := NewMaterialRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, db, dbc, "prof@example.com", types.RoleInstructor, types.StatusApproved)
	student := testutil.SeedUser(t, db, dbc, "kid@example.com", types.RoleStudent, types.StatusApproved)
	w := testutil.SeedWeek(t, db, dbc, 1, "Intro")

	_, err := repo.Insert(testutil.As(dbc, student), &types.Material{WeekID: w.ID, Title: "x", Type: types.MaterialTypeLink, IsVisible: true})
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("Insert(student): want ErrForbidden got %v", err)
	}

	created, err := repo.Insert(testutil.As(dbc, instructor), &types.Material{WeekID: w.ID, Title: "Slides", Type: types.MaterialTypePDF, IsVisible: true})
	if err != nil {
		t.Fatalf("Insert(instructor): %v", err)
	}
	if created.Week == nil || created.Week.Title != "Intro" {
		t.Fatalf("Insert: week not loaded")
	}

	rows, err := repo.Update(testutil.As(dbc, student), created.ID, map[string]interface{}{"title": "hacked"})
	if err != nil || rows != 0 {
		t.Fatalf("Update(student): rows=%d err=%v", rows, err)
	}
	rows, err = repo.Update(testutil.As(dbc, instructor), created.ID, map[string]interface{}{"title": "Slides v2"})
	if err != nil || rows != 1 {
		t.Fatalf("Update(instructor): rows=%d err=%v", rows, err)
	}
	got, err := repo.GetByID(dbc, created.ID)
	if err != nil || got.Title != "Slides v2" {
		t.Fatalf("GetByID: err=%v title=%v", err, got)
	}

	if rows, _ := repo.Delete(testutil.As(dbc, student), created.ID); rows != 0 {
		t.Fatalf("Delete(student): want 0 rows got %d", rows)
	}
	if exists, _ := repo.Exists(dbc, created.ID); !exists {
		t.Fatalf("Exists: row should survive a denied delete")
	}
	if rows, err := repo.Delete(testutil.As(dbc, instructor), created.ID); err != nil || rows != 1 {
		t.Fatalf("Delete(instructor): rows=%d err=%v", rows, err)
	}
	if _, err := repo.GetByID(dbc, created.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByID(deleted): want ErrNotFound got %v", err)
	}
}

func TestMaterialRepoPendingInstructorIsDenied(t *testing.T) {
	db, dbc := testutil.DB(t)
	repo := NewMaterialRepo(db, testutil.Logger(t))

	pending := testutil.SeedUser(t, db, dbc, "new@example.com", types.RoleInstructor, types.StatusPending)
	w := testutil.SeedWeek(t, db, dbc, 1, "Intro")
	m := testutil.SeedMaterial(t, db, dbc, w.ID, "a", 0, true)

	if rows, err := repo.Update(testutil.As(dbc, pending), m.ID, map[string]interface{}{"sort_order": 4}); err != nil || rows != 0 {
		t.Fatalf("Update(pending): rows=%d err=%v", rows, err)
	}
}

func TestMaterialRepoLegacyInstructorWithoutStatus(t *testing.T) {
	db, dbc := testutil.DB(t)
	repo := NewMaterialRepo(db, testutil.Logger(t))

	legacy := testutil.SeedUser(t, db, dbc, "old@example.com", types.RoleInstructor, "")
	w := testutil.SeedWeek(t, db, dbc, 1, "Intro")
	m := testutil.SeedMaterial(t, db, dbc, w.ID, "a", 0, true)

	as := testutil.As(dbc, legacy)
	if !ctxutil.ActorFrom(as.Ctx).IsInstructor() {
		t.Fatalf("actor with empty status should pass the instructor gate")
	}
	if rows, err := repo.Update(as, m.ID, map[string]interface{}{"sort_order": 4}); err != nil || rows != 1 {
		t.Fatalf("Update(legacy): rows=%d err=%v", rows, err)
	}
	if _, err := repo.Insert(as, &types.Material{WeekID: w.ID, Title: "b", Type: types.MaterialTypeLink, IsVisible: true}); err != nil {
		t.Fatalf("Insert(legacy): %v", err)
	}
}

func TestMaterialRepoReferencedURLs(t *testing.T) {
	db, dbc := testutil.DB(t)
	repo := NewMaterialRepo(db, testutil.Logger(t))

	w := testutil.SeedWeek(t, db, dbc, 1, "Intro")
	m := &types.Material{WeekID: w.ID, Title: "v", Type: types.MaterialTypeVideo, ContentURL: "https://cdn/a.mp4", MediaURLs: []string{"https://cdn/b.png"}}
	if err := dbc.DB(db).Create(m).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	urls, err := repo.ReferencedURLs(dbc)
	if err != nil {
		t.Fatalf("ReferencedURLs: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("ReferencedURLs: want 2 got %v", urls)
	}
}
