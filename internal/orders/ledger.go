package orders

// Ledger keeps orders most-recent-first. Like products.Catalog it relies on
// the caller for synchronization.
type Ledger struct {
	orders []Order
}

// NewLedger builds a ledger from persisted orders, which are already stored
// most-recent-first.
func NewLedger(orders []Order) *Ledger {
	l := &Ledger{orders: make([]Order, len(orders))}
	copy(l.orders, orders)
	return l
}

// Prepend inserts o at the head of the ledger.
func (l *Ledger) Prepend(o Order) {
	l.orders = append(l.orders, Order{})
	copy(l.orders[1:], l.orders)
	l.orders[0] = o
}

// Find returns a pointer into the ledger so transitions can mutate the order
// in place. The pointer is invalidated by the next Prepend or Clear.
func (l *Ledger) Find(id string) (*Order, bool) {
	for i := range l.orders {
		if l.orders[i].ID == id {
			return &l.orders[i], true
		}
	}
	return nil, false
}

// All returns a copy of the ledger, most-recent-first.
func (l *Ledger) All() []Order {
	out := make([]Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// ByName returns the orders placed under exactly this buyer name.
func (l *Ledger) ByName(name string) []Order {
	out := []Order{}
	for _, o := range l.orders {
		if o.Name == name {
			out = append(out, o)
		}
	}
	return out
}

// Clear drops every order.
func (l *Ledger) Clear() {
	l.orders = []Order{}
}

func (l *Ledger) Len() int { return len(l.orders) }
