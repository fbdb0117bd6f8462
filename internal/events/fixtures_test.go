package events

import (
	"time"

	"storefront/internal/orders"

	"github.com/shopspring/decimal"
)

func orderFixture() orders.Order {
	return orders.Order{
		ID:        "o1",
		Name:      "Alice",
		Item:      orders.ItemSnapshot{ID: "1", Title: "Fizz", Price: decimal.NewFromInt(2)},
		Quantity:  3,
		Total:     decimal.NewFromInt(6),
		Status:    orders.StatusPending,
		CreatedAt: time.Unix(0, 0).UTC(),
	}
}
