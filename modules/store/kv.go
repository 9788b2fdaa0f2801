// Package store provides the key-value backends a cart is persisted to.
//
// Every driver stores opaque byte values under string keys and replaces the
// whole value on Set. Get reports a missing key with ErrNotFound.
package store

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("store: key not found")

// KV is the minimal storage contract shared by all drivers.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverBunt   = "bunt"
	DriverLedis  = "ledis"
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Options selects and configures a driver.
type Options struct {
	Driver string

	// Path is the database file (bunt, bolt, sqlite) or data directory (ledis).
	Path string

	RedisAddr string
	RedisDB   int
}

// Open returns the KV driver described by opts.
func Open(opts Options) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverBunt, "":
		kv, err = OpenBunt(opts.Path)
	case DriverLedis:
		kv, err = OpenLedis(opts.Path)
	case DriverBolt:
		kv, err = OpenBolt(opts.Path)
	case DriverRedis:
		kv, err = OpenRedis(opts.RedisAddr, opts.RedisDB)
	case DriverSQLite:
		kv, err = OpenSQLite(opts.Path)
	default:
		return nil, errors.Errorf("store: unknown driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return kv, nil
}
