package shop

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/events"
	"storefront/internal/orders"
	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"
)

// DefaultCancelReason is recorded when a cancel request gives no reason.
const DefaultCancelReason = "not specified"

func (e *Engine) Approve(ctx context.Context, id string) (orders.Order, error) {
	return e.transition(ctx, id, orders.StatusApproved, "")
}

// Reject returns the order's quantity to stock if the item still exists.
func (e *Engine) Reject(ctx context.Context, id string) (orders.Order, error) {
	return e.transition(ctx, id, orders.StatusRejected, "")
}

// Cancel behaves like Reject and also records the reason.
func (e *Engine) Cancel(ctx context.Context, id, reason string) (orders.Order, error) {
	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancelReason
	}
	return e.transition(ctx, id, orders.StatusCancelled, reason)
}

func (e *Engine) transition(ctx context.Context, id string, to orders.Status, reason string) (orders.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.ledger.Find(id)
	if !ok {
		return orders.Order{}, apperr.New(apperr.ErrNotFound, "order not found")
	}
	if o.Status.Terminal() {
		return orders.Order{}, apperr.Newf(apperr.ErrInvalidTransition, "order is already %s", o.Status)
	}

	o.Status = to
	if to == orders.StatusCancelled {
		o.CancellationReason = reason
	}
	updated := *o

	evs := []events.Event{events.LedgerChanged(e.ledger.All())}
	if to == orders.StatusRejected || to == orders.StatusCancelled {
		// The item may have been deleted since; its stock is then gone with it.
		if it, err := e.catalog.AdjustStock(updated.Item.ID, updated.Quantity); err == nil {
			e.persistItems()
			evs = append(evs, events.StockChanged(it))
		}
	}
	if to == orders.StatusCancelled {
		evs = append(evs, events.Cancelled(updated, reason))
	}
	e.persistOrders()
	e.notifier.Publish(evs...)

	slog.Info("order status changed",
		slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)),
		slog.String(logkey.OrderID, updated.ID),
		slog.String("status", string(to)))
	return updated, nil
}

// ClearAll empties the ledger. Stock of pending orders is not returned.
func (e *Engine) ClearAll(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.ledger.Len()
	e.ledger.Clear()
	e.persistOrders()
	e.notifier.Publish(events.LedgerChanged(e.ledger.All()))

	slog.Warn("order ledger cleared", slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)), slog.Int("orders", n))
}
