package main

import (
	"context"
	"time"

	"github.com/facebookgo/inject"
	"github.com/olebedev/config"
	"github.com/pkg/errors"
	"github.com/tryanzu/gomarket/core/shell"
	"github.com/tryanzu/gomarket/deps"
	"github.com/tryanzu/gomarket/modules/cart"
	"github.com/tryanzu/gomarket/modules/exceptions"
)

// app is what every command runs with.
type app struct {
	deps   deps.Deps
	cart   *cart.Cart
	errors *exceptions.ExceptionsModule
	shell  shell.Shell
}

func boot(ctx context.Context, file string) (*app, error) {
	container, err := deps.Bootstrap(file)
	if err != nil {
		return nil, err
	}

	conf := container.Config()
	a := &app{
		deps: container,
		errors: exceptions.Boot(container.Sentry(), map[string]string{
			"driver": conf.UString("storage.driver"),
		}),
	}

	bucket := cart.NewKVBucket(container.Store(), conf.UString("storage.key", cart.DefaultKey))
	a.cart = cart.Boot(ctx, bucket,
		cart.WithRetries(conf.UInt("persist.retries", 3)),
		cart.WithBackoff(duration(conf, "persist.backoff", 100*time.Millisecond)),
		cart.WithSaveTimeout(duration(conf, "persist.timeout", 5*time.Second)),
		cart.OnPersistError(func(err error) {
			a.errors.Report(err)
		}),
	)

	// Graph main object (used to inject dependencies)
	var g inject.Graph
	err = g.Provide(
		&inject.Object{Value: container.Log(), Complete: true},
		&inject.Object{Value: conf, Complete: true},
		&inject.Object{Value: a.cart, Complete: true},
		&inject.Object{Value: a.errors, Complete: true},
		&inject.Object{Value: &a.shell},
	)
	if err == nil {
		err = g.Populate()
	}
	if err != nil {
		a.close(ctx)
		return nil, errors.Wrap(err, "inject")
	}

	a.shell.ConfigFile = file
	a.shell.Reload = func(next *config.Config) {
		if err := deps.SetLevel(container, next.UString("log.level", "INFO")); err != nil {
			container.Log().Warning(err)
		}
	}
	return a, nil
}

// close saves the cart and releases the store.
func (a *app) close(ctx context.Context) error {
	err := a.cart.Close(ctx)
	if derr := a.deps.Close(); err == nil {
		err = derr
	}
	return err
}

func duration(conf *config.Config, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(conf.UString(key))
	if err != nil {
		return fallback
	}
	return d
}
