package realtime

import (
	"github.com/google/uuid"

	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

// SSEClient is one open event stream.
type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	Logger   *logger.Logger
}
