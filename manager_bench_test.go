package tokenrot

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newBenchmarkManager(b *testing.B) (*Manager, func()) {
	b.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		b.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	manager, err := New().WithRedis(rdb).Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}

	return manager, func() {
		manager.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

func BenchmarkCreate(b *testing.B) {
	manager, cleanup := newBenchmarkManager(b)
	defer cleanup()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := manager.Create(context.Background(), "u1", Metadata{}); err != nil {
			b.Fatalf("create failed: %v", err)
		}
	}
}

func BenchmarkRotate(b *testing.B) {
	manager, cleanup := newBenchmarkManager(b)
	defer cleanup()

	created, err := manager.Create(context.Background(), "u1", Metadata{})
	if err != nil {
		b.Fatalf("create failed: %v", err)
	}
	refresh := created.RefreshToken

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rotated, err := manager.Rotate(context.Background(), refresh)
		if err != nil {
			b.Fatalf("rotate failed: %v", err)
		}
		refresh = rotated.RefreshToken
	}
}

func BenchmarkListSessions(b *testing.B) {
	manager, cleanup := newBenchmarkManager(b)
	defer cleanup()

	for i := 0; i < 10; i++ {
		if _, err := manager.Create(context.Background(), "u1", Metadata{DeviceInfo: "bench"}); err != nil {
			b.Fatalf("create failed: %v", err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := manager.ListSessions(context.Background(), "u1"); err != nil {
			b.Fatalf("list failed: %v", err)
		}
	}
}
