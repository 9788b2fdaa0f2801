package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/buntdb"
)

// Bunt persists values in a buntdb file. Path ":memory:" keeps it in memory.
type Bunt struct {
	db *buntdb.DB
}

func OpenBunt(path string) (*Bunt, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: bunt path is required")
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open bunt %s", path)
	}
	return &Bunt{db: db}, nil
}

func (b *Bunt) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var value string
	err := b.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err == buntdb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "store: bunt get %s", key)
	}
	return []byte(value), nil
}

func (b *Bunt) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(value), nil)
		return err
	})
	return errors.Wrapf(err, "store: bunt set %s", key)
}

func (b *Bunt) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(key)
		if err == buntdb.ErrNotFound {
			return nil
		}
		return err
	})
	return errors.Wrapf(err, "store: bunt delete %s", key)
}

func (b *Bunt) Close() error {
	return b.db.Close()
}
