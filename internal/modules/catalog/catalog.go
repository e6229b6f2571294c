package catalog

import (
	"context"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/platform/ctxutil"
	"github.com/yungbote/course-portal-backend/internal/platform/dbctx"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

// Store persists materials. Writes the caller may not make affect zero rows instead of failing.
type Store interface {
	List(dbc dbctx.Context, includeHidden bool) ([]*types.Material, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Material, error)
	Insert(dbc dbctx.Context, m *types.Material) (*types.Material, error)
	Update(dbc dbctx.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (int64, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

// ObjectStore keeps uploaded files and hands back their public URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// Event is what subscribers hear after the catalog changes.
type Event struct {
	Materials []*types.Material
	Tentative bool
}

type Publisher interface {
	PublishMaterials(ctx context.Context, ev Event)
}

type Metrics interface {
	ObserveReorder(result string)
	IncResync()
	ObserveUpload(result string)
}

type Deps struct {
	Log       *logger.Logger
	Store     Store
	Objects   ObjectStore
	Publisher Publisher
	Metrics   Metrics
}

// Catalog is the ordered material list shared by every request in the process.
type Catalog struct {
	log       *logger.Logger
	store     Store
	objects   ObjectStore
	publisher Publisher
	metrics   Metrics
	validate  *validator.Validate
	tracer    trace.Tracer

	reorderMu sync.Mutex
	state     State
}

func New(deps Deps) *Catalog {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	m := deps.Metrics
	if m == nil {
		m = nopMetrics{}
	}
	return &Catalog{
		log:       log.With("component", "Catalog"),
		store:     deps.Store,
		objects:   deps.Objects,
		publisher: deps.Publisher,
		metrics:   m,
		validate:  newValidator(),
		tracer:    otel.Tracer("course-portal/catalog"),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("material_type", func(fl validator.FieldLevel) bool {
		return types.MaterialType(fl.Field().String()).Valid()
	})
	return v
}

// State exposes the confirmed and tentative lists.
func (c *Catalog) State() *State { return &c.state }

func privileged(ctx context.Context) bool {
	return ctxutil.ActorFrom(ctx).IsInstructor()
}

// LoadAll returns every material the caller may see, in display order.
// On failure the result is empty, never nil.
func (c *Catalog) LoadAll(ctx context.Context) ([]*types.Material, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.LoadAll")
	defer span.End()

	priv := privileged(ctx)
	span.SetAttributes(attribute.Bool("catalog.privileged", priv))
	items, err := c.store.List(dbctx.Context{Ctx: ctx}, priv)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return []*types.Material{}, c.storeErr("load materials", err)
	}
	if items == nil {
		items = []*types.Material{}
	}
	SortMaterials(items)
	if priv {
		c.state.replace(items)
	}
	span.SetAttributes(attribute.Int("catalog.count", len(items)))
	return items, nil
}

// View loads the catalog and applies q for the current caller.
func (c *Catalog) View(ctx context.Context, q Query) (View, error) {
	all, err := c.LoadAll(ctx)
	return View{Items: FilteredView(all, q, privileged(ctx)), Query: q}, err
}

func (c *Catalog) Create(ctx context.Context, in Input, file *File) (*types.Material, error) {
	in = in.normalized()
	if err := c.validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}
	weekID, _ := uuid.Parse(in.WeekID)

	contentURL, err := c.contentURL(ctx, in, file)
	if err != nil {
		return nil, err
	}
	visible := true
	if in.IsVisible != nil {
		visible = *in.IsVisible
	}
	m := &types.Material{
		WeekID:      weekID,
		Title:       in.Title,
		Type:        in.materialType(),
		ContentURL:  contentURL,
		Description: in.Description,
		Summary:     in.Summary,
		MediaURLs:   in.MediaURLs,
		IsVisible:   visible,
		SortOrder:   0,
	}
	created, err := c.store.Insert(dbctx.Context{Ctx: ctx}, m)
	if err != nil {
		return nil, c.storeErr("create material", err)
	}
	c.log.Info("material created", "material_id", created.ID, "type", created.Type)
	c.refresh(ctx)
	return created, nil
}

func (c *Catalog) Update(ctx context.Context, id uuid.UUID, in Input, file *File) (*types.Material, error) {
	in = in.normalized()
	if err := c.validate.Struct(in); err != nil {
		return nil, validationErr(err)
	}
	weekID, _ := uuid.Parse(in.WeekID)

	contentURL, err := c.contentURL(ctx, in, file)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"week_id":     weekID,
		"title":       in.Title,
		"type":        string(in.materialType()),
		"content_url": contentURL,
		"description": in.Description,
		"summary":     in.Summary,
	}
	if in.IsVisible != nil {
		fields["is_visible"] = *in.IsVisible
	}
	if in.MediaURLs != nil {
		fields["media_urls"] = datatypes.JSONSlice[string](in.MediaURLs)
	}
	if err := c.write(ctx, id, fields); err != nil {
		return nil, err
	}
	for _, m := range c.refresh(ctx) {
		if m.ID == id {
			return m, nil
		}
	}
	// The write landed but the reload missed it; read the row back directly.
	m, err := c.store.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, c.storeErr("reload material", err)
	}
	return m, nil
}

func (c *Catalog) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	if err := c.write(ctx, id, map[string]interface{}{"is_visible": visible}); err != nil {
		return err
	}
	c.refresh(ctx)
	return nil
}

// Remove deletes the material outright. Local state only changes through the refetch.
func (c *Catalog) Remove(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := c.store.Delete(dbc, id)
	if err != nil {
		return c.storeErr("delete material", err)
	}
	if rows == 0 {
		return c.denied(c.store.Exists(dbc, id))
	}
	c.log.Info("material removed", "material_id", id)
	c.refresh(ctx)
	return nil
}

// Reorder moves id one step in dir within view, which must be unfiltered.
// The new order is published as tentative before the writes land. If any write fails
// the tentative order is dropped and the catalog is reloaded; the reloaded list is
// returned together with the error.
func (c *Catalog) Reorder(ctx context.Context, view View, id uuid.UUID, dir Direction) ([]*types.Material, error) {
	if !view.Query.Unfiltered() {
		c.metrics.ObserveReorder("refused")
		return view.Items, ErrFiltersActive
	}
	c.reorderMu.Lock()
	defer c.reorderMu.Unlock()
	return c.reorderLocked(ctx, view.Items, id, dir)
}

// ReorderCurrent builds the caller's view from a fresh load and reorders within it.
func (c *Catalog) ReorderCurrent(ctx context.Context, q Query, id uuid.UUID, dir Direction) ([]*types.Material, error) {
	if !q.Unfiltered() {
		c.metrics.ObserveReorder("refused")
		return nil, ErrFiltersActive
	}
	c.reorderMu.Lock()
	defer c.reorderMu.Unlock()
	all, err := c.LoadAll(ctx)
	if err != nil {
		return all, err
	}
	return c.reorderLocked(ctx, FilteredView(all, q, privileged(ctx)), id, dir)
}

func (c *Catalog) reorderLocked(ctx context.Context, items []*types.Material, id uuid.UUID, dir Direction) ([]*types.Material, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.Reorder", trace.WithAttributes(
		attribute.String("material.id", id.String()),
		attribute.String("catalog.direction", string(dir)),
		attribute.Int("catalog.count", len(items)),
	))
	defer span.End()

	plan := PlanReorder(items, id, dir)
	if !plan.Moved {
		c.metrics.ObserveReorder("noop")
		return items, nil
	}
	span.SetAttributes(attribute.Int("catalog.changed", len(plan.Changed)))

	c.state.propose(plan.Items)
	c.publish(ctx, plan.Items, true)

	dbc := dbctx.Context{Ctx: ctx}
	var g errgroup.Group
	for _, m := range plan.Changed {
		g.Go(func() error {
			rows, err := c.store.Update(dbc, m.ID, map[string]interface{}{"sort_order": m.SortOrder})
			if err != nil {
				return c.storeErr("reorder material", err)
			}
			if rows == 0 {
				return c.denied(c.store.Exists(dbc, m.ID))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reorder failed")
		c.metrics.ObserveReorder("failed")
		c.log.Warn("reorder failed, resyncing", "material_id", id, "error", err)

		c.state.discard()
		c.metrics.IncResync()
		fresh, lerr := c.LoadAll(ctx)
		if lerr != nil {
			c.log.Error("resync after reorder failed", "error", lerr)
		} else {
			c.publish(ctx, fresh, false)
		}
		return fresh, err
	}

	c.state.commit()
	c.metrics.ObserveReorder("ok")
	c.publish(ctx, plan.Items, false)
	return plan.Items, nil
}

// write applies fields to one material and reports denial apart from absence.
func (c *Catalog) write(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := c.store.Update(dbc, id, fields)
	if err != nil {
		return c.storeErr("update material", err)
	}
	if rows == 0 {
		return c.denied(c.store.Exists(dbc, id))
	}
	return nil
}

// refresh reloads after a successful write and notifies subscribers.
func (c *Catalog) refresh(ctx context.Context) []*types.Material {
	items, err := c.LoadAll(ctx)
	if err != nil {
		return items
	}
	c.publish(ctx, items, false)
	return items
}

func (c *Catalog) publish(ctx context.Context, items []*types.Material, tentative bool) {
	if c.publisher == nil {
		return
	}
	c.publisher.PublishMaterials(ctx, Event{Materials: cloneAll(items), Tentative: tentative})
}

func (c *Catalog) contentURL(ctx context.Context, in Input, file *File) (string, error) {
	if !in.materialType().RequiresUpload() || !file.present() {
		return in.ContentURL, nil
	}
	return c.UploadFile(ctx, file)
}

type nopMetrics struct{}

func (nopMetrics) ObserveReorder(string) {}
func (nopMetrics) IncResync()            {}
func (nopMetrics) ObserveUpload(string)  {}
