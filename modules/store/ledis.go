package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	lediscfg "github.com/siddontang/ledisdb/config"
	"github.com/siddontang/ledisdb/ledis"
)

// Ledis persists values in an embedded ledisdb instance rooted at a data
// directory. Values live in database 0.
type Ledis struct {
	conn *ledis.Ledis
	db   *ledis.DB
}

func OpenLedis(dataDir string) (*Ledis, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, errors.New("store: ledis data dir is required")
	}
	conf := lediscfg.NewConfigDefault()
	conf.DataDir = dataDir

	conn, err := ledis.Open(conf)
	if err != nil {
		return nil, errors.Wrapf(err, "store: open ledis %s", dataDir)
	}
	db, err := conn.Select(0)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "store: select ledis db")
	}
	return &Ledis{conn: conn, db: db}, nil
}

func (l *Ledis) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, err := l.db.Get([]byte(key))
	if err != nil {
		return nil, errors.Wrapf(err, "store: ledis get %s", key)
	}
	// ledis reports a missing key as a nil value.
	if v == nil {
		return nil, ErrNotFound
	}
	return v, nil
}

func (l *Ledis) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Wrapf(l.db.Set([]byte(key), value), "store: ledis set %s", key)
}

func (l *Ledis) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := l.db.Del([]byte(key))
	return errors.Wrapf(err, "store: ledis delete %s", key)
}

func (l *Ledis) Close() error {
	l.conn.Close()
	return nil
}
