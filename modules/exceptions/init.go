package exceptions

import (
	"errors"
	"fmt"

	"github.com/getsentry/raven-go"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("exceptions")

// ExceptionsModule logs errors and forwards them to Sentry when a client is
// configured.
type ExceptionsModule struct {
	ErrorService *raven.Client
	Tags         map[string]string
}

func Boot(client *raven.Client, tags map[string]string) *ExceptionsModule {
	return &ExceptionsModule{ErrorService: client, Tags: tags}
}

// Report records err. It returns the Sentry event id, empty when Sentry is
// disabled.
func (di *ExceptionsModule) Report(err error) string {
	if err == nil {
		return ""
	}
	log.Error(err)
	if di == nil || di.ErrorService == nil {
		return ""
	}
	return di.ErrorService.CaptureError(err, di.Tags)
}

// Recover reports a panic in progress and lets it continue. The CLI defers it
// around every command run.
func (di *ExceptionsModule) Recover() {
	rval := recover()
	if rval == nil {
		return
	}

	if di != nil && di.ErrorService != nil {
		var err error
		switch v := rval.(type) {
		case error:
			err = v
		default:
			err = errors.New(fmt.Sprint(v))
		}
		packet := raven.NewPacket(err.Error(), raven.NewException(err, raven.NewStacktrace(2, 3, nil)))
		_, ch := di.ErrorService.Capture(packet, di.Tags)
		<-ch
	}
	log.Criticalf("panic: %v", rval)
	panic(rval)
}
