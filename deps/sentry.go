package deps

import (
	"github.com/getsentry/raven-go"
	"github.com/pkg/errors"
)

// IgniteSentry creates the error reporting client when sentry.dsn is set.
func IgniteSentry(container Deps) (Deps, error) {
	dsn := container.Config().UString("sentry.dsn")
	if dsn == "" {
		return container, nil
	}
	client, err := raven.New(dsn)
	if err != nil {
		return container, errors.Wrap(err, "deps: sentry")
	}
	container.ErrorProvider = client
	return container, nil
}
