package cart

import "time"

type options struct {
	retries     int
	backoff     time.Duration
	saveTimeout time.Duration
	onError     func(error)
}

func defaultOptions() options {
	return options{
		retries:     3,
		backoff:     100 * time.Millisecond,
		saveTimeout: 5 * time.Second,
	}
}

type Option func(*options)

// WithRetries sets how many times a failed save is retried.
func WithRetries(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.retries = n
	}
}

// WithBackoff sets the initial delay between save retries.
func WithBackoff(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.backoff = d
		}
	}
}

// WithSaveTimeout bounds a single save attempt.
func WithSaveTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.saveTimeout = d
		}
	}
}

// OnPersistError registers fn to be called, from the writer goroutine, with
// every save the cart gives up on.
func OnPersistError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}
