// Package cart holds the shopping cart: an ordered list of line items kept in
// memory and rewritten in full to a Bucket after every change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/op/go-logging"
	"github.com/tryanzu/gomarket/core/events"
	"gopkg.in/go-playground/validator.v8"
)

var log = logging.MustGetLogger("cart")

// EventChange is the bus event name cart changes are published under.
const EventChange = "cart:change"

var ErrInvalidProduct = errors.New("cart: invalid product")

// Cart is safe for concurrent use.
type Cart struct {
	mu       sync.Mutex
	items    Items
	revision uint64

	writer   *writer
	bus      *events.Bus
	validate *validator.Validate
}

// Boot restores the persisted list from storage and starts the cart's
// writer. A missing or unreadable list leaves the cart empty.
func Boot(ctx context.Context, storage Bucket, opts ...Option) *Cart {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	restored, err := storage.Restore(ctx)
	switch {
	case errors.Is(err, ErrCorrupt):
		log.Warningf("discarding stored cart: %v", err)
		restored = nil
	case err != nil:
		log.Warningf("could not restore cart, starting empty: %v", err)
		restored = nil
	}

	items, dropped := normalize(restored)
	if dropped > 0 {
		log.Warningf("dropped %d invalid stored cart lines", dropped)
	}
	log.Debugf("cart booted with %d lines", len(items))

	validate := validator.New(&validator.Config{TagName: "validate"})
	if err := validate.RegisterValidation("finite", finite); err != nil {
		panic(err)
	}

	return &Cart{
		items:    items,
		writer:   newWriter(storage, o),
		bus:      events.NewBus(),
		validate: validate,
	}
}

// Add puts product in the cart with quantity one, or increments its line
// when it is already there.
func (c *Cart) Add(product Product) (Result, error) {
	if err := c.validate.Struct(product); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.items.index(product.ID); i >= 0 {
		return c.increment(i), nil
	}

	item := Item{
		ID:       product.ID,
		Title:    product.Title,
		ImageURL: product.ImageURL,
		Price:    product.Price,
		Quantity: 1,
	}
	c.items = append(c.items, item)
	return c.commit(StatusAdded, item), nil
}

// Increment raises the quantity of line id by one. Unknown ids are left
// alone and reported as StatusNotFound.
func (c *Cart) Increment(id string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.items.index(id)
	if i < 0 {
		return Result{Status: StatusNotFound}
	}
	return c.increment(i)
}

// Decrement lowers the quantity of line id by one, removing the line when
// it was the last unit.
func (c *Cart) Decrement(id string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.items.index(id)
	if i < 0 {
		return Result{Status: StatusNotFound}
	}

	if c.items[i].Quantity > 1 {
		c.items[i].Quantity--
		return c.commit(StatusDecremented, c.items[i])
	}

	removed := c.items[i]
	removed.Quantity = 0
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	return c.commit(StatusRemoved, removed)
}

func (c *Cart) increment(i int) Result {
	c.items[i].Quantity++
	return c.commit(StatusIncremented, c.items[i])
}

// commit publishes the current list. Callers hold c.mu, which keeps
// revisions, saves and notifications in mutation order.
func (c *Cart) commit(status Status, item Item) Result {
	c.revision++
	result := Result{Status: status, Item: item, Revision: c.revision}

	c.writer.schedule(snapshot{revision: c.revision, items: c.items.clone()})
	c.bus.Emit(events.Event{
		Name: EventChange,
		Params: map[string]interface{}{
			"change": Change{Result: result, Items: c.items.clone()},
		},
	})
	return result
}

// Products returns a copy of the current lines in insertion order.
func (c *Cart) Products() Items {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.clone()
}

// Get returns the line for id.
func (c *Cart) Get(id string) (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.items.index(id); i >= 0 {
		return c.items[i], true
	}
	return Item{}, false
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Count()
}

// Total is the cart value.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Total()
}

// Revision identifies the current state. It grows by one per change.
func (c *Cart) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revision
}

// Subscribe calls fn with every change, in order, from the cart's event
// goroutine. fn may read or mutate the cart but must not call Flush or Close.
func (c *Cart) Subscribe(fn func(Change)) (unsubscribe func()) {
	return c.bus.On(EventChange, func(e events.Event) {
		if change, ok := e.Params["change"].(Change); ok {
			fn(change)
		}
	})
}

// Flush waits until the state as of the call has been saved and delivered
// to subscribers. A save the cart gave up on is returned wrapping ErrPersist.
func (c *Cart) Flush(ctx context.Context) error {
	err := c.writer.wait(ctx, c.Revision())
	c.bus.Drain()
	return err
}

// Close saves pending state, delivers pending notifications and stops the
// cart's goroutines. The cart stays readable; later changes are not saved.
func (c *Cart) Close(ctx context.Context) error {
	err := c.writer.close(ctx)
	c.bus.Close()
	return err
}
