package catalog

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	pkgerrors "github.com/yungbote/course-portal-backend/internal/pkg/errors"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
)

func fourMaterials() []*types.Material {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []*types.Material{
		material("M1", 0, base),
		material("M2", 1, base.Add(time.Minute)),
		material("M3", 2, base.Add(2*time.Minute)),
		material("M4", 3, base.Add(3*time.Minute)),
	}
}

func TestLoadAllOrdersBySortOrderThenNewest(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	old := material("old", 1, base)
	fresh := material("fresh", 1, base.Add(time.Hour))
	first := material("first", 0, base)
	store := newFakeStore(old, fresh, first)
	c := New(Deps{Store: store})

	got, err := c.LoadAll(instructorCtx())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if want := []string{"first", "fresh", "old"}; !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("LoadAll: want %v got %v", want, titles(got))
	}
	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		if prev.SortOrder > cur.SortOrder {
			t.Fatalf("sort_order decreased at %d", i)
		}
		if prev.SortOrder == cur.SortOrder && prev.CreatedAt.Before(cur.CreatedAt) {
			t.Fatalf("created_at increased among ties at %d", i)
		}
	}
}

func TestLoadAllStoreFailureReturnsEmpty(t *testing.T) {
	store := newFakeStore(fourMaterials()...)
	store.listErr = errBoom
	c := New(Deps{Store: store})

	got, err := c.LoadAll(instructorCtx())
	if !errors.Is(err, pkgerrors.ErrUnavailable) {
		t.Fatalf("LoadAll: want ErrUnavailable got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("LoadAll: want empty non-nil slice got %#v", got)
	}
}

func TestVisibilityFiltering(t *testing.T) {
	items := fourMaterials()
	items[1].IsVisible = false
	store := newFakeStore(items[:3]...)
	c := New(Deps{Store: store})

	studentView, err := c.View(studentCtx(), Query{Type: TypeAll})
	if err != nil {
		t.Fatalf("View(student): %v", err)
	}
	if want := []string{"M1", "M3"}; !reflect.DeepEqual(titles(studentView.Items), want) {
		t.Fatalf("View(student): want %v got %v", want, titles(studentView.Items))
	}
	instructorView, err := c.View(instructorCtx(), Query{Type: TypeAll})
	if err != nil {
		t.Fatalf("View(instructor): %v", err)
	}
	if len(instructorView.Items) != 3 {
		t.Fatalf("View(instructor): want 3 got %d", len(instructorView.Items))
	}

	queries := []Query{{}, {Text: "M2"}, {Type: "link"}, {Text: "week", Type: "link"}}
	for _, q := range queries {
		for _, m := range FilteredView(items, q, false) {
			if !m.IsVisible {
				t.Fatalf("FilteredView(%+v) leaked hidden %q", q, m.Title)
			}
		}
	}
}

func TestFilteredViewTypeAndText(t *testing.T) {
	base := time.Now()
	pdf := material("Intro to AI", 0, base)
	pdf.Type = types.MaterialTypePDF
	video := material("Intro to AI", 1, base)
	video.Type = types.MaterialTypeVideo
	other := material("Ethics", 2, base)
	other.Type = types.MaterialTypePDF
	other.Week.Title = "Introduction week"

	got := FilteredView([]*types.Material{pdf, video, other}, Query{Text: "intro", Type: "pdf"}, false)
	if len(got) != 2 || got[0] != pdf || got[1] != other {
		t.Fatalf("FilteredView: want [pdf, other] got %v", titles(got))
	}
	if all := FilteredView([]*types.Material{pdf, video, other}, Query{Type: "ALL"}, false); len(all) != 3 {
		t.Fatalf("FilteredView(all): want 3 got %d", len(all))
	}
}

func TestReorderMovesUpAndRenumbers(t *testing.T) {
	items := fourMaterials()
	store := newFakeStore(items...)
	pub := &fakePublisher{}
	c := New(Deps{Store: store, Publisher: pub})
	ctx := instructorCtx()

	view, err := c.View(ctx, Query{Type: TypeAll})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	got, err := c.Reorder(ctx, view, items[2].ID, DirectionUp)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if want := []string{"M1", "M3", "M2", "M4"}; !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("Reorder: want %v got %v", want, titles(got))
	}
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(orders(got), want) {
		t.Fatalf("Reorder: want sort orders %v got %v", want, orders(got))
	}
	if n := store.count("update"); n != 2 {
		t.Fatalf("Reorder: want 2 updates got %d", n)
	}

	reloaded, _ := c.LoadAll(ctx)
	if want := []string{"M1", "M3", "M2", "M4"}; !reflect.DeepEqual(titles(reloaded), want) {
		t.Fatalf("reloaded: want %v got %v", want, titles(reloaded))
	}
	if c.State().Pending() {
		t.Fatalf("state still pending after success")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.events) < 2 || !pub.events[0].Tentative || pub.events[len(pub.events)-1].Tentative {
		t.Fatalf("want tentative then confirmed events, got %d events", len(pub.events))
	}
}

func TestReorderNormalizesSparseOrders(t *testing.T) {
	base := time.Now()
	items := []*types.Material{
		material("a", 3, base),
		material("b", 7, base),
		material("c", 7, base.Add(-time.Minute)),
		material("d", 20, base),
	}
	c := New(Deps{Store: newFakeStore(items...)})
	ctx := instructorCtx()
	view, _ := c.View(ctx, Query{})

	got, err := c.Reorder(ctx, view, items[3].ID, DirectionUp)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	seen := map[int]bool{}
	for _, m := range got {
		if m.SortOrder < 0 || m.SortOrder >= len(got) || seen[m.SortOrder] {
			t.Fatalf("sort orders not dense: %v", orders(got))
		}
		seen[m.SortOrder] = true
	}
	if want := []string{"a", "b", "d", "c"}; !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("Reorder: want %v got %v", want, titles(got))
	}
}

func TestReorderBoundaryIsNoop(t *testing.T) {
	items := fourMaterials()
	store := newFakeStore(items...)
	c := New(Deps{Store: store})
	ctx := instructorCtx()
	view, _ := c.View(ctx, Query{Type: TypeAll})

	cases := []struct {
		name string
		id   uuid.UUID
		dir  Direction
	}{
		{"first up", items[0].ID, DirectionUp},
		{"last down", items[3].ID, DirectionDown},
		{"unknown id", uuid.New(), DirectionDown},
	}
	for _, tc := range cases {
		got, err := c.Reorder(ctx, view, tc.id, tc.dir)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if !reflect.DeepEqual(titles(got), titles(view.Items)) || !reflect.DeepEqual(orders(got), orders(view.Items)) {
			t.Fatalf("%s: view changed: %v %v", tc.name, titles(got), orders(got))
		}
	}
	if n := store.count("update"); n != 0 {
		t.Fatalf("boundary moves issued %d updates", n)
	}
}

func TestReorderDownThenUpRestoresOrder(t *testing.T) {
	items := fourMaterials()
	c := New(Deps{Store: newFakeStore(items...)})
	ctx := instructorCtx()
	view, _ := c.View(ctx, Query{})
	original := titles(view.Items)

	down, err := c.Reorder(ctx, view, items[1].ID, DirectionDown)
	if err != nil {
		t.Fatalf("down: %v", err)
	}
	up, err := c.Reorder(ctx, View{Items: down}, items[1].ID, DirectionUp)
	if err != nil {
		t.Fatalf("up: %v", err)
	}
	if !reflect.DeepEqual(titles(up), original) {
		t.Fatalf("want %v got %v", original, titles(up))
	}
}

func TestReorderRefusedWhileFiltered(t *testing.T) {
	items := fourMaterials()
	store := newFakeStore(items...)
	c := New(Deps{Store: store})
	ctx := instructorCtx()

	for _, q := range []Query{{Text: "intro"}, {Type: "pdf"}, {Text: " M ", Type: TypeAll}} {
		view := View{Items: FilteredView(items, q, true), Query: q}
		before := len(store.Calls())
		_, err := c.Reorder(ctx, view, items[1].ID, DirectionUp)
		if !errors.Is(err, ErrFiltersActive) {
			t.Fatalf("Reorder(%+v): want ErrFiltersActive got %v", q, err)
		}
		if after := len(store.Calls()); after != before {
			t.Fatalf("Reorder(%+v): store was called", q)
		}
		if _, err := c.ReorderCurrent(ctx, q, items[1].ID, DirectionUp); !errors.Is(err, ErrFiltersActive) {
			t.Fatalf("ReorderCurrent(%+v): want ErrFiltersActive got %v", q, err)
		}
	}
	if len(store.Calls()) != 0 {
		t.Fatalf("refused reorders touched the store: %v", store.Calls())
	}
	if !strings.Contains(ErrFiltersActive.Error(), "clear filters") {
		t.Fatalf("message should tell the caller to clear filters")
	}
}

func TestReorderFailureResyncs(t *testing.T) {
	items := fourMaterials()
	store := newFakeStore(items...)
	store.updErr[items[1].ID] = errBoom
	pub := &fakePublisher{}
	c := New(Deps{Store: store, Publisher: pub})
	ctx := instructorCtx()
	view, _ := c.View(ctx, Query{})

	got, err := c.Reorder(ctx, view, items[2].ID, DirectionUp)
	if !errors.Is(err, pkgerrors.ErrUnavailable) {
		t.Fatalf("Reorder: want ErrUnavailable got %v", err)
	}
	if c.State().Pending() {
		t.Fatalf("tentative state should be discarded")
	}
	// M3's write landed and M2's did not, so both hold rank 1 and the newer M3 sorts first.
	if want := []string{"M1", "M3", "M2", "M4"}; !reflect.DeepEqual(titles(got), want) {
		t.Fatalf("resynced: want %v got %v", want, titles(got))
	}
	if want := []int{0, 1, 1, 3}; !reflect.DeepEqual(orders(got), want) {
		t.Fatalf("resynced orders: want %v got %v", want, orders(got))
	}
	if !reflect.DeepEqual(titles(c.State().Current()), titles(got)) {
		t.Fatalf("state should hold the resynced list")
	}
}

func TestReorderDeniedIsForbidden(t *testing.T) {
	items := fourMaterials()
	store := newFakeStore(items...)
	store.denyAll = true
	c := New(Deps{Store: store})
	ctx := instructorCtx()
	view, _ := c.View(ctx, Query{})

	if _, err := c.Reorder(ctx, view, items[1].ID, DirectionDown); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("Reorder: want ErrForbidden got %v", err)
	}
}

func TestReorderSerializesConcurrentCalls(t *testing.T) {
	items := fourMaterials()
	c := New(Deps{Store: newFakeStore(items...)})
	ctx := instructorCtx()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := DirectionDown
			if i%2 == 1 {
				dir = DirectionUp
			}
			_, _ = c.ReorderCurrent(ctx, Query{}, items[1].ID, dir)
		}(i)
	}
	wg.Wait()

	got, err := c.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if want := []int{0, 1, 2, 3}; !reflect.DeepEqual(orders(got), want) {
		t.Fatalf("interleaved renumbering: %v", orders(got))
	}
}

func TestCreateValidationIssuesNoStoreCalls(t *testing.T) {
	store := newFakeStore()
	c := New(Deps{Store: store})
	week := uuid.NewString()

	cases := []Input{
		{WeekID: week, Title: "  ", Type: "link"},
		{WeekID: "", Title: "Slides", Type: "link"},
		{WeekID: week, Title: "Slides", Type: "podcast"},
		{WeekID: "not-a-uuid", Title: "Slides", Type: "link"},
	}
	for _, in := range cases {
		if _, err := c.Create(instructorCtx(), in, nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("Create(%+v): want ErrInvalidArgument got %v", in, err)
		}
	}
	if calls := store.Calls(); len(calls) != 0 {
		t.Fatalf("validation failures reached the store: %v", calls)
	}
}

func TestCreateDefaultsVisibleAndFirst(t *testing.T) {
	store := newFakeStore(fourMaterials()...)
	c := New(Deps{Store: store})
	ctx := instructorCtx()

	created, err := c.Create(ctx, Input{WeekID: uuid.NewString(), Title: "New", Type: "link", ContentURL: "https://example.com"}, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.IsVisible || created.SortOrder != 0 {
		t.Fatalf("Create: visible=%v sort_order=%d", created.IsVisible, created.SortOrder)
	}
	all, _ := c.LoadAll(ctx)
	if all[0].ID != created.ID {
		t.Fatalf("new material should lead the list, got %q", all[0].Title)
	}
}

func TestCreateUploadsBeforeInsert(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjects{store: store}
	c := New(Deps{Store: store, Objects: objects})
	ctx := instructorCtx()
	file := &File{Name: "diagram.PNG", ContentType: "image/png", Reader: strings.NewReader("png")}

	created, err := c.Create(ctx, Input{WeekID: uuid.NewString(), Title: "Diagram", Type: "image", ContentURL: "ignored"}, file)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if objects.insertsAtUpload != 0 {
		t.Fatalf("upload ran after insert")
	}
	if len(objects.keys) != 1 || !strings.HasSuffix(created.ContentURL, objects.keys[0]) {
		t.Fatalf("content_url not replaced by upload: %q", created.ContentURL)
	}
}

func TestCreateUploadFailureSkipsInsert(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjects{err: errBoom}
	c := New(Deps{Store: store, Objects: objects})
	ctx := instructorCtx()
	file := &File{Name: "diagram.png", Reader: strings.NewReader("png")}

	_, err := c.Create(ctx, Input{WeekID: uuid.NewString(), Title: "Diagram", Type: "image"}, file)
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("Create: want ErrUpload got %v", err)
	}
	if strings.Contains(err.Error(), errBoom.Error()) {
		t.Fatalf("storage error text leaked: %q", err.Error())
	}
	if n := store.count("insert"); n != 0 {
		t.Fatalf("insert called %d times after failed upload", n)
	}
	all, _ := c.LoadAll(ctx)
	if len(all) != 0 {
		t.Fatalf("failed create left %d records", len(all))
	}
}

func TestCreateLinkIgnoresFile(t *testing.T) {
	store := newFakeStore()
	objects := &fakeObjects{}
	c := New(Deps{Store: store, Objects: objects})

	created, err := c.Create(instructorCtx(), Input{WeekID: uuid.NewString(), Title: "Docs", Type: "link", ContentURL: "https://go.dev"}, &File{Name: "x.pdf", Reader: strings.NewReader("x")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ContentURL != "https://go.dev" || len(objects.keys) != 0 {
		t.Fatalf("link material should keep its URL, got %q uploads=%d", created.ContentURL, len(objects.keys))
	}
}

func TestWritesDistinguishDenialFromMissing(t *testing.T) {
	items := fourMaterials()
	store := newFakeStore(items...)
	c := New(Deps{Store: store})
	ctx := instructorCtx()

	if err := c.SetVisibility(ctx, uuid.New(), false); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("SetVisibility(missing): want ErrNotFound got %v", err)
	}
	if err := c.Remove(ctx, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("Remove(missing): want ErrNotFound got %v", err)
	}

	store.denyAll = true
	if err := c.SetVisibility(ctx, items[0].ID, false); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("SetVisibility(denied): want ErrForbidden got %v", err)
	}
	if err := c.Remove(ctx, items[0].ID); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("Remove(denied): want ErrForbidden got %v", err)
	}
	_, err := c.Update(ctx, items[0].ID, Input{WeekID: uuid.NewString(), Title: "x", Type: "text"}, nil)
	if !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("Update(denied): want ErrForbidden got %v", err)
	}
	if got, _ := store.Exists(dbcFor(ctx), items[0].ID); !got {
		t.Fatalf("denied remove must leave the record")
	}
}

func TestUpdateReturnsRefetchedRecord(t *testing.T) {
	items := fourMaterials()
	c := New(Deps{Store: newFakeStore(items...)})
	ctx := instructorCtx()

	hidden := false
	got, err := c.Update(ctx, items[2].ID, Input{WeekID: items[2].WeekID.String(), Title: "Renamed", Type: "text", IsVisible: &hidden}, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != "Renamed" || got.IsVisible {
		t.Fatalf("Update: got title=%q visible=%v", got.Title, got.IsVisible)
	}
	studentView, _ := c.View(studentCtx(), Query{})
	for _, m := range studentView.Items {
		if m.ID == items[2].ID {
			t.Fatalf("hidden material visible to student")
		}
	}
}

func TestUpdateSurvivesFailedReload(t *testing.T) {
	items := fourMaterials()
	store := newFakeStore(items...)
	store.listErrAfterUpdate = errBoom
	c := New(Deps{Store: store})

	got, err := c.Update(instructorCtx(), items[1].ID, Input{WeekID: items[1].WeekID.String(), Title: "Renamed", Type: "text"}, nil)
	if err != nil {
		t.Fatalf("Update after landed write: %v", err)
	}
	if got == nil || got.ID != items[1].ID || got.Title != "Renamed" {
		t.Fatalf("Update: got %+v", got)
	}
	if store.count("get") != 1 {
		t.Fatalf("expected one read-back, calls=%v", store.Calls())
	}
}

func TestStoreErrorsHideDriverText(t *testing.T) {
	store := newFakeStore(fourMaterials()...)
	store.listErr = errors.New(`pq: password authentication failed for user "portal"`)
	c := New(Deps{Store: store})

	_, err := c.LoadAll(instructorCtx())
	if !errors.Is(err, pkgerrors.ErrUnavailable) {
		t.Fatalf("LoadAll: want ErrUnavailable got %v", err)
	}
	if strings.Contains(err.Error(), "pq:") || strings.Contains(err.Error(), "portal") {
		t.Fatalf("driver detail leaked: %q", err.Error())
	}
}

func TestObjectKeyFormat(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	re := regexp.MustCompile(`^1700000000123-[0-9a-f]{10}\.png$`)
	if key := ObjectKey(now, "Photo.PNG"); !re.MatchString(key) {
		t.Fatalf("ObjectKey: got %q", key)
	}
	if key := ObjectKey(now, "README"); !strings.HasSuffix(key, ".bin") {
		t.Fatalf("ObjectKey(no ext): got %q", key)
	}
	if ObjectKey(now, "a.png") == ObjectKey(now, "a.png") {
		t.Fatalf("ObjectKey should be unique")
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection(" UP "); err != nil || d != DirectionUp {
		t.Fatalf("ParseDirection(up): %v %v", d, err)
	}
	if _, err := ParseDirection("left"); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("ParseDirection(left): want ErrInvalidArgument got %v", err)
	}
}

func dbcFor(ctx context.Context) dbctx.Context { return dbctx.Context{Ctx: ctx} }

func TestPlanReorderSkipsNilEntries(t *testing.T) {
	items := fourMaterials()
	withNil := []*types.Material{items[0], nil, items[1], items[2]}

	plan := PlanReorder(withNil, items[2].ID, DirectionUp)
	if !plan.Moved || len(plan.Items) != 3 {
		t.Fatalf("plan: moved=%v items=%d", plan.Moved, len(plan.Items))
	}
	want := []string{"M1", "M3", "M2"}
	for k, m := range plan.Items {
		if m.Title != want[k] || m.SortOrder != k {
			t.Fatalf("item %d: got %s/%d want %s/%d", k, m.Title, m.SortOrder, want[k], k)
		}
	}
}
