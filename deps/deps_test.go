package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/op/go-logging"
	"github.com/tryanzu/gomarket/modules/store"
)

func configFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "env.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBootstrap(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cart.bolt")
	container, err := Bootstrap(configFile(t, `{
		"log": {"level": "debug"},
		"storage": {"driver": "bolt", "path": "`+dbPath+`"}
	}`))
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer container.Close()

	if container.Config() == nil || container.Log() == nil {
		t.Fatal("expected config and logger")
	}
	if container.Sentry() != nil {
		t.Fatal("expected sentry to stay disabled without a dsn")
	}
	if _, ok := container.Store().(*store.Bolt); !ok {
		t.Fatalf("expected bolt store, got %T", container.Store())
	}
	if logging.GetLevel("") != logging.DEBUG {
		t.Fatalf("expected debug level, got %v", logging.GetLevel(""))
	}
	if err := container.Store().Set(context.Background(), "k", []byte("v")); err != nil {
		t.Fatalf("store set: %v", err)
	}
}

func TestBootstrapUnknownDriver(t *testing.T) {
	_, err := Bootstrap(configFile(t, `{"storage": {"driver": "mongo"}}`))
	if err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestBootstrapBadLevel(t *testing.T) {
	_, err := Bootstrap(configFile(t, `{"log": {"level": "loud"}, "storage": {"driver": "memory"}}`))
	if err == nil {
		t.Fatal("expected log level error")
	}
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	called := false
	_, err := Run(Deps{},
		func(d Deps) (Deps, error) {
			d.StoreProvider = store.NewMemory()
			return d, nil
		},
		func(d Deps) (Deps, error) { return d, boom },
		func(d Deps) (Deps, error) {
			called = true
			return d, nil
		},
	)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if called {
		t.Fatal("ignitor after the failure ran")
	}
}
