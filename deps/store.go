package deps

import (
	"github.com/tryanzu/gomarket/modules/store"
)

// IgniteStore opens the KV driver named by storage.driver.
func IgniteStore(container Deps) (Deps, error) {
	cfg := container.Config()
	opts := store.Options{
		Driver:    cfg.UString("storage.driver", store.DriverBunt),
		Path:      cfg.UString("storage.path", "./gomarket.db"),
		RedisAddr: cfg.UString("storage.redis.addr", "localhost:6379"),
		RedisDB:   cfg.UInt("storage.redis.db", 0),
	}
	kv, err := store.Open(opts)
	if err != nil {
		return container, err
	}
	log.Debugf("storage %s at %s", opts.Driver, opts.Path)
	container.StoreProvider = kv
	return container, nil
}
