package orders

import (
	"time"

	"storefront/internal/products"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order. Every order starts pending and
// moves at most once into one of the terminal states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// ItemSnapshot is the item as it was when the order was placed.
// Later catalog edits or deletions never reach it.
type ItemSnapshot struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// SnapshotOf captures the fields of an item that an order keeps.
func SnapshotOf(it products.Item) ItemSnapshot {
	return ItemSnapshot{ID: it.ID, Title: it.Title, Price: it.Price}
}

// Order represents a buyer's request for some quantity of one item.
type Order struct {
	ID                 string          `json:"id"`       // UUIDv7, sorts by creation time
	Name               string          `json:"name"`     // buyer name as typed
	Item               ItemSnapshot    `json:"item"`     // frozen copy of the item
	Quantity           int             `json:"quantity"` // always > 0
	Total              decimal.Decimal `json:"total"`    // item price * quantity at creation
	Status             Status          `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
}
