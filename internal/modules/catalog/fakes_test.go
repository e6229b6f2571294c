package catalog

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
)

var errBoom = errors.New("boom")

type fakeStore struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*types.Material
	calls    []string
	listErr  error
	updErr   map[uuid.UUID]error
	denyAll  bool
	inserted int
	updated  int

	// listErrAfterUpdate makes List fail once any Update has landed.
	listErrAfterUpdate error
}

func newFakeStore(items ...*types.Material) *fakeStore {
	s := &fakeStore{rows: map[uuid.UUID]*types.Material{}, updErr: map[uuid.UUID]error{}}
	for _, m := range items {
		s.rows[m.ID] = m.Clone()
	}
	return s
}

func (s *fakeStore) record(call string) {
	s.calls = append(s.calls, call)
}

func (s *fakeStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeStore) count(call string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (s *fakeStore) List(dbc dbctx.Context, includeHidden bool) ([]*types.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("list")
	if s.listErr != nil {
		return nil, s.listErr
	}
	if s.listErrAfterUpdate != nil && s.updated > 0 {
		return nil, s.listErrAfterUpdate
	}
	out := make([]*types.Material, 0, len(s.rows))
	for _, m := range s.rows {
		if !includeHidden && !m.IsVisible {
			continue
		}
		out = append(out, m.Clone())
	}
	return out, nil
}

func (s *fakeStore) Insert(dbc dbctx.Context, m *types.Material) (*types.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("insert")
	if s.denyAll {
		return nil, pkgerrors.ErrForbidden
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	s.inserted++
	s.rows[m.ID] = m.Clone()
	return m.Clone(), nil
}

func (s *fakeStore) Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("update")
	if err := s.updErr[id]; err != nil {
		return 0, err
	}
	m, ok := s.rows[id]
	if !ok || s.denyAll {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "sort_order":
			m.SortOrder = v.(int)
		case "is_visible":
			m.IsVisible = v.(bool)
		case "title":
			m.Title = v.(string)
		case "content_url":
			m.ContentURL = v.(string)
		case "type":
			m.Type = types.MaterialType(v.(string))
		}
	}
	s.updated++
	return 1, nil
}

func (s *fakeStore) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Material, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("get")
	m, ok := s.rows[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *fakeStore) Delete(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("delete")
	if _, ok := s.rows[id]; !ok || s.denyAll {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func (s *fakeStore) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("exists")
	_, ok := s.rows[id]
	return ok, nil
}

type fakeObjects struct {
	mu    sync.Mutex
	keys  []string
	err   error
	store *fakeStore
	// insertsAtUpload captures how many inserts had happened when Upload ran.
	insertsAtUpload int
}

func (o *fakeObjects) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.store != nil {
		o.insertsAtUpload = o.store.count("insert")
	}
	if o.err != nil {
		return "", o.err
	}
	_, _ = io.ReadAll(r)
	o.keys = append(o.keys, key)
	return "https://cdn.example.com/lecture_materials/" + key, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *fakePublisher) PublishMaterials(ctx context.Context, ev Event) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func material(title string, order int, created time.Time) *types.Material {
	return &types.Material{
		ID:        uuid.New(),
		WeekID:    uuid.New(),
		Week:      &types.Week{Title: "Week " + title, WeekNumber: order},
		Title:     title,
		Type:      types.MaterialTypeLink,
		IsVisible: true,
		SortOrder: order,
		CreatedAt: created,
	}
}

func instructorCtx() context.Context {
	return ctxutil.WithActor(context.Background(), ctxutil.Actor{
		UserID: uuid.New(),
		Role:   ctxutil.RoleInstructor,
		Status: ctxutil.StatusApproved,
	})
}

func studentCtx() context.Context {
	return ctxutil.WithActor(context.Background(), ctxutil.Actor{
		UserID: uuid.New(),
		Role:   ctxutil.RoleStudent,
		Status: ctxutil.StatusApproved,
	})
}

func titles(items []*types.Material) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.Title)
	}
	return out
}

func orders(items []*types.Material) []int {
	out := make([]int, 0, len(items))
	for _, m := range items {
		out = append(out, m.SortOrder)
	}
	return out
}
