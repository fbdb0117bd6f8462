package shop

import (
	"context"

	"storefront/internal/events"
	"storefront/internal/orders"
	"storefront/internal/products"
)

// Loader reads the persisted aggregates once at startup. found=false means
// the store has never been written and defaults apply.
type Loader interface {
	LoadItems(ctx context.Context) (items []products.Item, found bool, err error)
	LoadOrders(ctx context.Context) (all []orders.Order, found bool, err error)
}

// Saver accepts snapshots for background persistence. Both calls must return
// immediately; they run while the engine lock is held.
type Saver interface {
	SaveItems(items []products.Item)
	SaveOrders(all []orders.Order)
}

// Notifier accepts change notifications without blocking.
type Notifier interface {
	Publish(evs ...events.Event)
}

type discard struct{}

func (discard) SaveItems([]products.Item) {}
func (discard) SaveOrders([]orders.Order) {}
func (discard) Publish(...events.Event) {}
