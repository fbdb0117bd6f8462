// Package persist is the storage port of the storefront: a Repository per
// backend plus a Writer that moves snapshots to it off the request path.
package persist

import (
	"context"

	"storefront/internal/orders"
	"storefront/internal/products"
)

// Repository stores the two aggregates as whole documents. Load reports
// found=false when nothing has ever been written, which is not an error.
type Repository interface {
	Name() string
	LoadItems(ctx context.Context) ([]products.Item, bool, error)
	LoadOrders(ctx context.Context) ([]orders.Order, bool, error)
	SaveItems(ctx context.Context, items []products.Item) error
	SaveOrders(ctx context.Context, all []orders.Order) error
}
