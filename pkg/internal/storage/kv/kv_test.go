package kv_test

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	mrand "math/rand"
	"os"
	"testing"
	"time"

	"github.com/strixun/modvault/pkg/configs"
	"github.com/strixun/modvault/pkg/internal/storage/kv"
)

func TestMemoryKVBasicOps(t *testing.T) {
	ctx := context.Background()

	store, err := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	if err != nil {
		t.Fatalf("create memory kv: %v", err)
	}
	defer func() { _ = store.Close() }()

	key := "global/version/v-123"
	val := []byte(`{"version_id":"v-123"}`)

	if err := store.Set(ctx, key, val, 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if string(got) != string(val) {
		t.Fatalf("get returned %q, want %q", got, val)
	}

	exists, err := store.Exists(ctx, key)
	if err != nil || !exists {
		t.Fatalf("exists = %v, %v; want true, nil", exists, err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Get(ctx, key); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("get after delete = %v, want ErrKeyNotFound", err)
	}
}

func TestMemoryKVTTLExpiry(t *testing.T) {
	ctx := context.Background()

	store, _ := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	defer func() { _ = store.Close() }()

	if err := store.Set(ctx, "badge/v-1/flat", []byte("<svg/>"), time.Second); err != nil {
		t.Fatalf("set with ttl: %v", err)
	}

	if _, err := store.Get(ctx, "badge/v-1/flat"); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	// TTL 粒度为秒，等待包装器判定过期
	time.Sleep(1100 * time.Millisecond)

	if _, err := store.Get(ctx, "badge/v-1/flat"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Fatalf("get after expiry = %v, want ErrKeyNotFound", err)
	}
}

func TestMemoryKVListPagination(t *testing.T) {
	ctx := context.Background()

	store, _ := kv.NewKVStore(ctx, kv.KVTypeMemory, nil)
	defer func() { _ = store.Close() }()

	for i := range 25 {
		key := fmt.Sprintf("tenant/t-%02d/version/v-1", i)
		if err := store.Set(ctx, key, []byte("x"), 0); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	// 干扰项：不同前缀不应出现在结果中
	_ = store.Set(ctx, "global/version/v-9", []byte("x"), 0)

	var (
		cursor string
		total  int
		pages  int
	)

	for {
		keys, next, err := store.List(ctx, "tenant/", cursor, 10)
		if err != nil {
			t.Fatalf("list page %d: %v", pages, err)
		}

		for _, k := range keys {
			if len(k) < len("tenant/") || k[:len("tenant/")] != "tenant/" {
				t.Fatalf("listed key %q outside prefix", k)
			}
		}

		total += len(keys)
		pages++

		if next == "" {
			break
		}

		cursor = next
	}

	if total != 25 {
		t.Fatalf("listed %d keys, want 25", total)
	}

	if pages < 3 {
		t.Fatalf("expected pagination across >=3 pages, got %d", pages)
	}
}

func BenchmarkMemoryKV(b *testing.B) {
	store, err := kv.NewKVStore(context.Background(), kv.KVTypeMemory, nil)
	if err != nil {
		b.Fatalf("create memory kv: %v", err)
	}

	benchKV(b, "memory", store)
	_ = store.Close()
}

// Optional: enable with ENABLE_REDIS_BENCH=1 and REDIS_ADDR set (default 127.0.0.1:6379).
func BenchmarkRedisKV(b *testing.B) {
	if os.Getenv("ENABLE_REDIS_BENCH") == "" {
		b.Skip("set ENABLE_REDIS_BENCH=1 to enable")
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	cfg := &configs.RedisKVConfig{Addr: addr, Password: "", DB: 0}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeRedis, cfg)
	if err != nil {
		b.Skipf("redis not available: %v", err)
		return
	}

	benchKV(b, "redis", store)
	_ = store.Close()
}

// Optional: enable with ENABLE_NATS_BENCH=1 and NATS_URL set (default nats://127.0.0.1:4222).
func BenchmarkNATSKV(b *testing.B) {
	if os.Getenv("ENABLE_NATS_BENCH") == "" {
		b.Skip("set ENABLE_NATS_BENCH=1 to enable")
	}

	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://127.0.0.1:4222"
	}

	bucket := os.Getenv("NATS_BUCKET")
	if bucket == "" {
		bucket = "bench-kv"
	}

	cfg := &configs.NATSKVConfig{URL: url, User: "", Password: "", Bucket: bucket}

	store, err := kv.NewKVStore(context.Background(), kv.KVTypeNATS, cfg)
	if err != nil {
		b.Skipf("nats not available: %v", err)
		return
	}

	benchKV(b, "nats", store)
	_ = store.Close()
}

// randBytes returns n random bytes, seeded reproducibly for bench.
func randBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := crand.Read(b); err != nil {
		mr := mrand.New(mrand.NewSource(42))
		for i := range b {
			b[i] = byte(mr.Intn(256))
		}
	}

	return b
}

// benchKV 执行基本的 Set/Get/Delete 基准测试.
func benchKV(b *testing.B, name string, store kv.KVStore) {
	ctx := context.Background()
	sizes := []int{32, 1024, 64 * 1024}

	for _, size := range sizes {
		payload := randBytes(size)

		b.Run(fmt.Sprintf("%s/size=%d", name, size), func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; b.Loop(); i++ {
				key := fmt.Sprintf("bench-%s-%d", name, i)
				if err := store.Set(ctx, key, payload, 0); err != nil {
					b.Fatalf("set failed: %v", err)
				}

				if _, err := store.Get(ctx, key); err != nil {
					b.Fatalf("get failed: %v", err)
				}

				if err := store.Delete(ctx, key); err != nil {
					b.Fatalf("delete failed: %v", err)
				}
			}
		})
	}
}
