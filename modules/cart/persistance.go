package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tryanzu/gomarket/modules/store"
)

// DefaultKey is the storage key the cart list is kept under.
const DefaultKey = "@GoMarket:products"

var ErrCorrupt = errors.New("cart: stored cart is corrupt")

// ErrEncode is returned by Save when the list cannot be encoded. Saving the
// same list again cannot succeed.
var ErrEncode = errors.New("cart: cart cannot be encoded")

// Bucket persists the whole cart list.
type Bucket interface {

	// Restore the persisted list. A bucket with nothing stored returns nil, nil.
	Restore(ctx context.Context) ([]Item, error)

	// Save replaces the persisted list.
	Save(ctx context.Context, items []Item) error
}

// KVBucket stores the list as a JSON array under one key of a KV store.
type KVBucket struct {
	KV  store.KV
	Key string
}

func NewKVBucket(kv store.KV, key string) KVBucket {
	if key == "" {
		key = DefaultKey
	}
	return KVBucket{KV: kv, Key: key}
}

func (b KVBucket) Restore(ctx context.Context) ([]Item, error) {
	data, err := b.KV.Get(ctx, b.Key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return items, nil
}

func (b KVBucket) Save(ctx context.Context, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return b.KV.Set(ctx, b.Key, encoded)
}
