package cart

// Status tells what a mutation did.
type Status int

const (
	StatusNotFound Status = iota
	StatusAdded
	StatusIncremented
	StatusDecremented
	StatusRemoved
)

func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusIncremented:
		return "incremented"
	case StatusDecremented:
		return "decremented"
	case StatusRemoved:
		return "removed"
	default:
		return "not-found"
	}
}

// Changed reports whether the mutation altered the cart.
func (s Status) Changed() bool {
	return s != StatusNotFound
}

// Result of a mutation. Item holds the line as left by the mutation; a
// removed line is reported with quantity zero. Revision identifies the cart
// state the mutation produced and is zero when nothing changed.
type Result struct {
	Status   Status
	Item     Item
	Revision uint64
}

// Change is delivered to subscribers after every effective mutation.
type Change struct {
	Result Result
	Items  Items
}
