package shop

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/events"
	"storefront/internal/orders"
	"storefront/pkg/ctxmanage"
	"storefront/pkg/logkey"

	"github.com/shopspring/decimal"
)

// OrderRequest is an order as submitted by a buyer.
type OrderRequest struct {
	Name   string
	ItemID string
	// Quantity arrives as a JSON number; zero means missing and non-integers are rejected.
	Quantity float64
	// Requester identifies the client (its IP) for the cooldown.
	Requester string
	// Now overrides the engine clock when non-zero.
	Now time.Time
}

// SubmitOrder validates the request and, if it is admissible, takes the stock
// and records a pending order. Checks run in a fixed order and the first
// failure is returned; nothing is mutated on failure.
func (e *Engine) SubmitOrder(ctx context.Context, req OrderRequest) (orders.Order, error) {
	if req.Name == "" || req.ItemID == "" || req.Quantity == 0 {
		return orders.Order{}, apperr.New(apperr.ErrValidation, "name and quantity required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := req.Now
	if now.IsZero() {
		now = e.now()
	}

	it, ok := e.catalog.Get(req.ItemID)
	if !ok {
		return orders.Order{}, apperr.New(apperr.ErrNotFound, "item not found")
	}

	q := req.Quantity
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 || q != math.Trunc(q) {
		return orders.Order{}, apperr.New(apperr.ErrValidation, "quantity must be a positive integer")
	}
	if float64(it.Stock) < q {
		return orders.Order{}, &apperr.InsufficientStockError{Available: it.Stock}
	}
	qty := int(q)

	ipKey, nameKey := requesterKey(req.Requester), "name:"+req.Name
	if !e.cooldown.Ready(now, ipKey, nameKey) {
		return orders.Order{}, apperr.New(apperr.ErrRateLimited, "too many requests, wait a few seconds")
	}

	it, err := e.catalog.AdjustStock(it.ID, -qty)
	if err != nil {
		return orders.Order{}, fmt.Errorf("reserve stock: %w", err)
	}

	o := orders.Order{
		ID:        e.newID(),
		Name:      req.Name,
		Item:      orders.SnapshotOf(it),
		Quantity:  qty,
		Total:     it.Price.Mul(decimal.NewFromInt(int64(qty))),
		Status:    orders.StatusPending,
		CreatedAt: now.UTC(),
	}
	e.ledger.Prepend(o)
	e.cooldown.Record(now, ipKey, nameKey)

	e.persistItems()
	e.persistOrders()
	e.notifier.Publish(
		events.OrderPlaced(o),
		events.StockChanged(it),
		events.LedgerChanged(e.ledger.All()),
	)

	slog.Info("order accepted",
		slog.String(logkey.TraceID, ctxmanage.GetTraceId(ctx)),
		slog.String(logkey.OrderID, o.ID),
		slog.String(logkey.ItemID, it.ID),
		slog.Int("quantity", qty))
	return o, nil
}

// unknownRequester shares one cooldown between requests without an address.
const unknownRequester = "unknown"

func requesterKey(requester string) string {
	if requester == "" {
		requester = unknownRequester
	}
	return "ip:" + requester
}
