package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/course-portal-backend/internal/platform/envutil"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
	"github.com/yungbote/course-portal-backend/internal/realtime"
)

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	origin  string
}

type RedisConfig struct {
	Addr    string
	Channel string
}

// RedisConfigFromEnv reads REDIS_ADDR and REDIS_CHANNEL. An empty Addr disables the bus.
func RedisConfigFromEnv() RedisConfig {
	return RedisConfig{
		Addr:    strings.TrimSpace(envutil.String("REDIS_ADDR", "")),
		Channel: strings.TrimSpace(envutil.String("REDIS_CHANNEL", "course-portal-sse")),
	}
}

func NewRedisBus(log *logger.Logger, cfg RedisConfig) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.Channel == "" {
		cfg.Channel = "course-portal-sse"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newRedisBus(log, rdb, cfg.Channel), nil
}

func newRedisBus(log *logger.Logger, rdb *goredis.Client, channel string) *redisBus {
	origin := uuid.NewString()
	return &redisBus{
		log:     log.With("service", "RedisSSEBus", "origin", origin),
		rdb:     rdb,
		channel: channel,
		origin:  origin,
	}
}

func (b *redisBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis SSE bus not initialized")
	}
	raw, err := encode(msg, b.origin)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis SSE bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				msg, own, err := decode([]byte(m.Payload), b.origin)
				if err != nil {
					b.log.Warn("bad redis SSE payload", "error", err)
					continue
				}
				if own {
					continue
				}
				onMsg(msg)
			}
		}
	}()

	return nil
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func encode(msg realtime.SSEMessage, origin string) ([]byte, error) {
	msg.Origin = origin
	return json.Marshal(msg)
}

// decode reports own=true for messages this instance published itself.
func decode(raw []byte, origin string) (realtime.SSEMessage, bool, error) {
	var msg realtime.SSEMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return realtime.SSEMessage{}, false, err
	}
	return msg, msg.Origin == origin, nil
}
