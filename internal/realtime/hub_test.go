package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/course-portal-backend/internal/domain"
	"github.com/yungbote/course-portal-backend/internal/modules/catalog"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	channel := uuid.New().String()

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventMaterialsReordering, Data: map[string]any{"seq": 1}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventMaterialsChanged, Data: map[string]any{"seq": 2}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventMaterialsReordering {
		t.Fatalf("first event: want=%s got=%s", SSEEventMaterialsReordering, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventMaterialsChanged {
		t.Fatalf("second event: want=%s got=%s", SSEEventMaterialsChanged, got.Event)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}
	if n := hub.Subscribers(channel); n != 0 {
		t.Fatalf("subscribers after close: want 0 got %d", n)
	}

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventNoticeCreated})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventNoticeCreated {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventNoticeCreated, got.Event)
	}
}

func TestSSEHubBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, ChannelMaterials)

	done := make(chan struct{})
	go func() {
		for i := 0; i < clientBuffer*2; i++ {
			hub.Broadcast(SSEMessage{Channel: ChannelMaterials, Event: SSEEventMaterialsChanged})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Broadcast blocked on a full client")
	}
	if n := len(client.Outbound); n != clientBuffer {
		t.Fatalf("buffered: want %d got %d", clientBuffer, n)
	}
}

type recordingRelay struct {
	mu   sync.Mutex
	msgs []SSEMessage
}

func (r *recordingRelay) Publish(ctx context.Context, msg SSEMessage) error {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
	return nil
}

func TestEmitterPublishesVisibleMaterialsOnly(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	relay := &recordingRelay{}
	em := NewEmitter(hub, relay, logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	for _, ch := range DefaultChannels {
		hub.AddChannel(client, ch)
	}

	shown := &types.Material{ID: uuid.New(), Title: "shown", IsVisible: true}
	hidden := &types.Material{ID: uuid.New(), Title: "hidden"}
	em.PublishMaterials(context.Background(), catalog.Event{Materials: []*types.Material{shown, hidden}, Tentative: true})

	got := recvMessage(t, client.Outbound, time.Second)
	if got.Event != SSEEventMaterialsReordering {
		t.Fatalf("event: want=%s got=%s", SSEEventMaterialsReordering, got.Event)
	}
	payload, ok := got.Data.(MaterialsPayload)
	if !ok {
		t.Fatalf("payload type %T", got.Data)
	}
	if len(payload.Materials) != 1 || payload.Materials[0].ID != shown.ID {
		t.Fatalf("payload leaked hidden materials: %d items", len(payload.Materials))
	}
	if len(relay.msgs) != 1 {
		t.Fatalf("relay: want 1 message got %d", len(relay.msgs))
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	hub := NewSSEHub(logger.Nop())
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, ChannelNotices)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	hub.Broadcast(SSEMessage{Channel: ChannelNotices, Event: SSEEventNoticeCreated, Data: map[string]string{"title": "Exam"}})
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	hub.ServeHTTP(rec, req, client)

	body := rec.Body.String()
	if !strings.Contains(body, "event: NoticeCreated") || !strings.Contains(body, `"title":"Exam"`) {
		t.Fatalf("unexpected stream: %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: %q", ct)
	}
}
