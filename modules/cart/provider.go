package cart

import (
	"context"
	"errors"
)

// ErrNoProvider is the usage error of looking a cart up outside a provider
// scope.
var ErrNoProvider = errors.New("cart: lookup must happen within a cart provider scope")

type contextKey struct{}

// NewContext returns a copy of ctx that provides c to FromContext.
func NewContext(ctx context.Context, c *Cart) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext returns the cart provided by ctx.
func FromContext(ctx context.Context) (*Cart, error) {
	if ctx == nil {
		return nil, ErrNoProvider
	}
	c, ok := ctx.Value(contextKey{}).(*Cart)
	if !ok || c == nil {
		return nil, ErrNoProvider
	}
	return c, nil
}

// MustFromContext is FromContext for callers that cannot run without a cart.
// It panics with ErrNoProvider outside a provider scope.
func MustFromContext(ctx context.Context) *Cart {
	c, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return c
}
