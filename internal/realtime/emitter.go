package realtime

import (
	"context"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/modules/catalog"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

// Relay fans messages out to other instances.
type Relay interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// Emitter delivers to local streams and, when a relay is set, to the other instances.
type Emitter struct {
	hub   *SSEHub
	relay Relay
	log   *logger.Logger
}

func NewEmitter(hub *SSEHub, relay Relay, log *logger.Logger) *Emitter {
	return &Emitter{hub: hub, relay: relay, log: log.With("component", "SSEEmitter")}
}

func (e *Emitter) Emit(ctx context.Context, msg SSEMessage) {
	if e == nil {
		return
	}
	if e.hub != nil {
		e.hub.Broadcast(msg)
	}
	if e.relay == nil {
		return
	}
	if err := e.relay.Publish(context.WithoutCancel(ctx), msg); err != nil {
		e.log.Warn("relay publish failed", "event", msg.Event, "error", err)
	}
}

// MaterialsPayload is the body of catalog events. Only visible materials are sent;
// instructors refetch for the hidden ones.
type MaterialsPayload struct {
	Tentative bool              `json:"tentative"`
	Materials []*types.Material `json:"materials"`
}

// PublishMaterials makes the emitter a catalog publisher.
func (e *Emitter) PublishMaterials(ctx context.Context, ev catalog.Event) {
	event := SSEEventMaterialsChanged
	if ev.Tentative {
		event = SSEEventMaterialsReordering
	}
	e.Emit(ctx, SSEMessage{
		Channel: ChannelMaterials,
		Event:   event,
		Data: MaterialsPayload{
			Tentative: ev.Tentative,
			Materials: catalog.FilteredView(ev.Materials, catalog.Query{}, false),
		},
	})
}

func (e *Emitter) NoticeCreated(ctx context.Context, n *types.Notice) {
	if n == nil {
		return
	}
	e.Emit(ctx, SSEMessage{Channel: ChannelNotices, Event: SSEEventNoticeCreated, Data: n})
}
