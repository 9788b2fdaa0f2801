package cart

import (
	"math"
	"reflect"

	"gopkg.in/go-playground/validator.v8"
)

// finite is the "finite" validation tag: float fields must not be NaN or
// infinite, since those cannot be stored.
func finite(v *validator.Validate, topStruct reflect.Value, current reflect.Value, field reflect.Value, fieldType reflect.Type, fieldKind reflect.Kind, param string) bool {
	switch fieldKind {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	}
	return true
}

// Product describes something that can be put in the cart. It is a line item
// without a quantity.
type Product struct {
	ID       string  `json:"id" validate:"required"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price" validate:"finite,gte=0"`
}

// Item is one line of the cart.
type Item struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (item Item) Product() Product {
	return Product{ID: item.ID, Title: item.Title, ImageURL: item.ImageURL, Price: item.Price}
}

// Subtotal is price times quantity.
func (item Item) Subtotal() float64 {
	return item.Price * float64(item.Quantity)
}

// Items is an ordered list of line items.
type Items []Item

func (list Items) index(id string) int {
	for i, item := range list {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Count sums quantities.
func (list Items) Count() int {
	n := 0
	for _, item := range list {
		n += item.Quantity
	}
	return n
}

// Total sums subtotals.
func (list Items) Total() float64 {
	total := 0.0
	for _, item := range list {
		total += item.Subtotal()
	}
	return total
}

func (list Items) clone() Items {
	if list == nil {
		return Items{}
	}
	return append(Items(nil), list...)
}

// normalize drops entries that break cart invariants: empty ids, quantities
// below one and repeated ids (first occurrence wins).
func normalize(list Items) (Items, int) {
	out := make(Items, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	dropped := 0
	for _, item := range list {
		if item.ID == "" || item.Quantity < 1 {
			dropped++
			continue
		}
		if _, dup := seen[item.ID]; dup {
			dropped++
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out, dropped
}
