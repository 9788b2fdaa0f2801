// Package deps bootstraps the process-wide services the cart runs on.
package deps

import (
	"github.com/getsentry/raven-go"
	"github.com/olebedev/config"
	"github.com/op/go-logging"
	"github.com/tryanzu/gomarket/modules/store"
)

type Deps struct {
	ConfigFile     string
	ConfigProvider *config.Config
	LoggerProvider *logging.Logger
	LogLevel       logging.LeveledBackend
	StoreProvider  store.KV
	ErrorProvider  *raven.Client
}

func (d Deps) Config() *config.Config {
	return d.ConfigProvider
}

func (d Deps) Log() *logging.Logger {
	return d.LoggerProvider
}

func (d Deps) Store() store.KV {
	return d.StoreProvider
}

// Sentry is nil when no DSN is configured.
func (d Deps) Sentry() *raven.Client {
	return d.ErrorProvider
}

// Close releases what the ignitors opened.
func (d Deps) Close() error {
	if d.ErrorProvider != nil {
		d.ErrorProvider.Wait()
		d.ErrorProvider.Close()
	}
	if d.StoreProvider != nil {
		return d.StoreProvider.Close()
	}
	return nil
}
