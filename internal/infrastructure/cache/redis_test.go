package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)

	c, err := OpenRedis(context.Background(), s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	opt := c.Options()
	if opt.DB != 2 || opt.DialTimeout != 2*time.Second || opt.ReadTimeout != time.Second {
		t.Fatalf("options = db %d dial %v read %v", opt.DB, opt.DialTimeout, opt.ReadTimeout)
	}

	// idempotency keys are written with NX + TTL
	ctx := context.Background()
	ok, err := c.SetNX(ctx, "idemp:k", "v", time.Minute).Result()
	if err != nil || !ok {
		t.Fatalf("SETNX = %v, %v", ok, err)
	}
	if ok, _ := c.SetNX(ctx, "idemp:k", "w", time.Minute).Result(); ok {
		t.Fatal("second SETNX should not win")
	}
	if ttl := s.DB(2).TTL("idemp:k"); ttl != time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	if _, err := OpenRedis(context.Background(), "not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpenRedis_ServerDown(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	if _, err := OpenRedis(context.Background(), addr, 0); err == nil {
		t.Fatal("expected error against a stopped server")
	}
}
