package bus

import (
	"testing"

	"github.com/yungbote/course-portal-backend/internal/realtime"
)

func TestEncodeDecodeSkipsOwnEcho(t *testing.T) {
	msg := realtime.SSEMessage{Channel: realtime.ChannelMaterials, Event: realtime.SSEEventMaterialsChanged}

	raw, err := encode(msg, "instance-a")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, own, err := decode(raw, "instance-a")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !own {
		t.Fatalf("own echo not detected")
	}
	if got.Event != msg.Event || got.Channel != msg.Channel {
		t.Fatalf("decode: got %+v", got)
	}

	if _, own, _ := decode(raw, "instance-b"); own {
		t.Fatalf("foreign message treated as own")
	}
	if _, _, err := decode([]byte("{"), "instance-a"); err == nil {
		t.Fatalf("decode: want error for bad payload")
	}
}

func TestRedisConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", " localhost:6379 ")
	t.Setenv("REDIS_CHANNEL", "")
	cfg := RedisConfigFromEnv()
	if cfg.Addr != "localhost:6379" || cfg.Channel != "course-portal-sse" {
		t.Fatalf("RedisConfigFromEnv: got %+v", cfg)
	}
}

func TestNewRedisBusRequiresAddr(t *testing.T) {
	if _, err := NewRedisBus(nil, RedisConfig{}); err == nil {
		t.Fatalf("want error without logger")
	}
}
