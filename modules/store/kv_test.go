package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openDrivers(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()
	drivers := map[string]KV{}

	open := func(name string, opts Options) {
		kv, err := Open(opts)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		t.Cleanup(func() { kv.Close() })
		drivers[name] = kv
	}

	open("memory", Options{Driver: DriverMemory})
	open("bunt", Options{Driver: DriverBunt, Path: filepath.Join(dir, "cart.bunt")})
	open("bunt-memory", Options{Driver: DriverBunt, Path: ":memory:"})
	open("ledis", Options{Driver: DriverLedis, Path: filepath.Join(dir, "ledis")})
	open("bolt", Options{Driver: DriverBolt, Path: filepath.Join(dir, "cart.bolt")})
	open("sqlite", Options{Driver: DriverSQLite, Path: filepath.Join(dir, "cart.sqlite")})
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		open("redis", Options{Driver: DriverRedis, RedisAddr: addr})
	}
	return drivers
}

func TestDriversRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openDrivers(t) {
		t.Run(name, func(t *testing.T) {
			key := "@GoMarket:test:" + name
			defer kv.Delete(ctx, key)

			if _, err := kv.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound before set, got %v", err)
			}
			if err := kv.Set(ctx, key, []byte(`[{"id":"p1"}]`)); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Set(ctx, key, []byte(`[{"id":"p2"}]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := kv.Get(ctx, key)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != `[{"id":"p2"}]` {
				t.Fatalf("expected overwritten value, got %s", got)
			}
			if err := kv.Delete(ctx, key); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if _, err := kv.Get(ctx, key); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
			if err := kv.Delete(ctx, key); err != nil {
				t.Fatalf("delete missing key: %v", err)
			}
		})
	}
}

func TestFileDriversSurviveReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := []Options{
		{Driver: DriverBunt, Path: filepath.Join(dir, "reopen.bunt")},
		{Driver: DriverLedis, Path: filepath.Join(dir, "reopen-ledis")},
		{Driver: DriverBolt, Path: filepath.Join(dir, "reopen.bolt")},
		{Driver: DriverSQLite, Path: filepath.Join(dir, "reopen.sqlite")},
	}
	for _, opts := range cases {
		t.Run(opts.Driver, func(t *testing.T) {
			kv, err := Open(opts)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if err := kv.Set(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := kv.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			kv, err = Open(opts)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer kv.Close()
			got, err := kv.Get(ctx, "k")
			if err != nil {
				t.Fatalf("get after reopen: %v", err)
			}
			if string(got) != "v" {
				t.Fatalf("expected v, got %s", got)
			}
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	value := []byte("abc")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	value[0] = 'x'
	got, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %s", got)
	}
}

func TestOpenValidation(t *testing.T) {
	_, err := Open(Options{Driver: "mongo"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if got := err.Error(); got != `store: unknown driver "mongo"` {
		t.Fatalf("unexpected error %q", got)
	}
	for _, driver := range []string{DriverBunt, DriverLedis, DriverBolt, DriverSQLite} {
		if _, err := Open(Options{Driver: driver, Path: "  "}); err == nil {
			t.Fatalf("expected path error for %s", driver)
		}
	}
	if _, err := Open(Options{Driver: DriverRedis}); err == nil {
		t.Fatal("expected address error for redis")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	if err := m.Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
