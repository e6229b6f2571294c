package bus

import (
	"context"

	"github.com/yungbote/course-portal-backend/internal/realtime"
)

// Bus carries SSE messages between instances.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}

// Forward re-broadcasts messages from other instances into the local hub.
func Forward(ctx context.Context, b Bus, hub *realtime.SSEHub) error {
	return b.StartForwarder(ctx, hub.Broadcast)
}
