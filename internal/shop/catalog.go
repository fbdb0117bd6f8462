package shop

import (
	"context"
	"log/slog"

	"storefront/internal/events"
	"storefront/internal/products"
	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"
)

func (e *Engine) AddItem(ctx context.Context, in products.NewItem) (products.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	it, err := e.catalog.Add(in)
	if err != nil {
		return products.Item{}, err
	}
	e.persistItems()
	e.notifier.Publish(events.ItemAdded(it))

	slog.Info("item added", slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)), slog.String(logkey.ItemID, it.ID))
	return it, nil
}

// UpdateItem applies a partial update. Clients always get a stockUpdate
// alongside the itemsUpdate so stock badges refresh without a reload.
func (e *Engine) UpdateItem(ctx context.Context, id string, p products.Patch) (products.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	it, err := e.catalog.Update(id, p)
	if err != nil {
		return products.Item{}, err
	}
	e.persistItems()
	e.notifier.Publish(events.ItemUpdated(it), events.StockChanged(it))

	slog.Info("item updated", slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)), slog.String(logkey.ItemID, it.ID))
	return it, nil
}

// RemoveItem deletes an item. Orders referencing it keep their snapshot.
func (e *Engine) RemoveItem(ctx context.Context, id string) (products.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed, err := e.catalog.Remove(id)
	if err != nil {
		return products.Item{}, err
	}
	e.persistItems()
	e.notifier.Publish(events.ItemDeleted(removed.ID))

	slog.Info("item removed", slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)), slog.String(logkey.ItemID, removed.ID))
	return removed, nil
}
