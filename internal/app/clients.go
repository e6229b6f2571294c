package app

import (
	"context"
	"fmt"

	"github.com/yungbote/course-portal-backend/internal/platform/gcp"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
	"github.com/yungbote/course-portal-backend/internal/realtime/bus"
)

// Clients are the optional external collaborators. A nil field means the
// collaborator is not configured.
type Clients struct {
	Bucket gcp.BucketService
	SSEBus bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	storageCfg, err := gcp.ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return Clients{}, fmt.Errorf("object storage config: %w", err)
	}
	bucket, err := gcp.NewBucketServiceWithConfig(ctx, log, storageCfg)
	if err != nil {
		log.Warn("object storage unavailable, file uploads will fail", "error", err)
	} else {
		out.Bucket = bucket
	}

	redisCfg := bus.RedisConfigFromEnv()
	if redisCfg.Addr == "" {
		log.Warn("REDIS_ADDR not set, realtime events stay on this instance")
		return out, nil
	}
	b, err := bus.NewRedisBus(log, redisCfg)
	if err != nil {
		log.Warn("redis SSE bus unavailable, realtime events stay on this instance", "error", err)
		return out, nil
	}
	out.SSEBus = b
	return out, nil
}

func (c Clients) Close() {
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
}
