package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ErrPersist wraps every failure to write the cart to its bucket.
var ErrPersist = errors.New("cart: persist failed")

var (
	errSuperseded = errors.New("cart: snapshot superseded")
	errClosed     = errors.New("cart: writer closed")
)

type snapshot struct {
	revision uint64
	items    Items
}

// writer is the only goroutine that saves to the bucket. It keeps at most
// one pending snapshot, the newest, so the last write always carries the
// latest in-memory state.
type writer struct {
	bucket  Bucket
	retries int
	backoff time.Duration
	timeout time.Duration
	onError func(error)

	mu      sync.Mutex
	pending *snapshot
	latest  uint64
	saved   uint64
	failed  uint64
	lastErr error
	changed chan struct{}
	closed  bool

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newWriter(bucket Bucket, o options) *writer {
	w := &writer{
		bucket:  bucket,
		retries: o.retries,
		backoff: o.backoff,
		timeout: o.saveTimeout,
		onError: o.onError,
		changed: make(chan struct{}),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *writer) schedule(s snapshot) {
	w.mu.Lock()
	if w.closed {
		err := fmt.Errorf("%w: revision %d: %w", ErrPersist, s.revision, errClosed)
		w.latest = s.revision
		w.fail(s.revision, err)
		w.mu.Unlock()
		log.Warningf("change after close not saved: revision %d", s.revision)
		return
	}
	w.pending = &s
	w.latest = s.revision
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.quit:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	for {
		w.mu.Lock()
		s := w.pending
		w.pending = nil
		w.mu.Unlock()
		if s == nil {
			return
		}
		w.persist(*s)
	}
}

func (w *writer) persist(s snapshot) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.backoff

	attempt := 0
	_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
		if attempt > 0 && w.superseded() {
			return struct{}{}, backoff.Permanent(errSuperseded)
		}
		attempt++

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		defer cancel()
		err := w.bucket.Save(ctx, s.items)
		if err != nil {
			log.Warningf("save revision %d failed (attempt %d): %v", s.revision, attempt, err)
		}
		if errors.Is(err, ErrEncode) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(uint(w.retries+1)))

	switch {
	case err == nil:
		log.Debugf("saved revision %d (%d items)", s.revision, len(s.items))
		w.mu.Lock()
		if s.revision > w.saved {
			w.saved = s.revision
		}
		w.notify()
		w.mu.Unlock()
	case errors.Is(err, errSuperseded):
		log.Debugf("revision %d superseded before it could be saved", s.revision)
	default:
		perr := fmt.Errorf("%w: revision %d: %w", ErrPersist, s.revision, err)
		log.Errorf("giving up on revision %d after %d attempts: %v", s.revision, attempt, err)
		// The report lands before waiters wake.
		w.report(perr)
		w.mu.Lock()
		w.fail(s.revision, perr)
		w.mu.Unlock()
	}
}

// fail records err for revision. Callers hold w.mu.
func (w *writer) fail(revision uint64, err error) {
	if revision > w.failed {
		w.failed = revision
	}
	w.lastErr = err
	w.notify()
}

// notify wakes waiters. Callers hold w.mu.
func (w *writer) notify() {
	close(w.changed)
	w.changed = make(chan struct{})
}

func (w *writer) report(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

func (w *writer) superseded() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending != nil
}

// wait blocks until revision, or a later one, has been saved or given up on.
func (w *writer) wait(ctx context.Context, revision uint64) error {
	for {
		w.mu.Lock()
		if w.saved >= revision {
			w.mu.Unlock()
			return nil
		}
		if w.failed >= revision {
			err := w.lastErr
			w.mu.Unlock()
			return err
		}
		changed := w.changed
		w.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// close saves whatever is pending and stops the writer goroutine.
func (w *writer) close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.quit)
	})

	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.saved >= w.latest {
		return nil
	}
	return w.lastErr
}
