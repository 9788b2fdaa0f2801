package shell

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tryanzu/gomarket/modules/cart"
	"github.com/tryanzu/gomarket/modules/helpers"
)

var ErrUsage = errors.New("shell: usage")

const titleWidth = 24

// Add parses "<id> <title> <price> [image]" and adds the product.
func Add(c *cart.Cart, args []string) (cart.Result, error) {
	if len(args) < 3 {
		return cart.Result{}, errors.Wrap(ErrUsage, "add <id> <title> <price> [image]")
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return cart.Result{}, errors.Wrapf(ErrUsage, "price %q is not a number", args[2])
	}
	if math.IsInf(price, 0) || math.IsNaN(price) {
		return cart.Result{}, errors.Wrapf(ErrUsage, "price %q is not a finite number", args[2])
	}

	product := cart.Product{ID: args[0], Title: args[1], Price: price}
	if len(args) > 3 {
		product.ImageURL = args[3]
	}
	return c.Add(product)
}

func Increment(c *cart.Cart, args []string) (cart.Result, error) {
	if len(args) != 1 {
		return cart.Result{}, errors.Wrap(ErrUsage, "inc <id>")
	}
	return c.Increment(args[0]), nil
}

func Decrement(c *cart.Cart, args []string) (cart.Result, error) {
	if len(args) != 1 {
		return cart.Result{}, errors.Wrap(ErrUsage, "dec <id>")
	}
	return c.Decrement(args[0]), nil
}

// List writes one row per line item.
func List(w io.Writer, items cart.Items) {
	if len(items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}
	for i, item := range items {
		fmt.Fprintf(w, "%2d) %-16s %-*s x%-3d %s\n",
			i+1,
			item.ID,
			titleWidth,
			helpers.Ellipsis(item.Title, titleWidth),
			item.Quantity,
			helpers.FormatPrice(item.Subtotal()),
		)
	}
}

// Summary is the one line cart footer.
func Summary(items cart.Items) string {
	units := "units"
	if items.Count() == 1 {
		units = "unit"
	}
	return fmt.Sprintf("%d %s, total %s", items.Count(), units, helpers.FormatPrice(items.Total()))
}

// Describe renders the outcome of a mutation on line id.
func Describe(id string, r cart.Result) string {
	switch r.Status {
	case cart.StatusNotFound:
		return fmt.Sprintf("%s is not in the cart", id)
	case cart.StatusRemoved:
		return fmt.Sprintf("removed %s", r.Item.ID)
	default:
		return fmt.Sprintf("%s %s (x%d)", r.Status, r.Item.ID, r.Item.Quantity)
	}
}

// Feed returns a subscriber that writes every change to w.
func Feed(w io.Writer) func(cart.Change) {
	return func(change cart.Change) {
		fmt.Fprintf(w, "%s · %s\n", Describe(change.Result.Item.ID, change.Result), Summary(change.Items))
	}
}
