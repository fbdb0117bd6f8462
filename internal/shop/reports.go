package shop

import (
	"storefront/internal/apperr"
	"storefront/internal/orders"
	"storefront/internal/products"

	"github.com/shopspring/decimal"
)

// Summary aggregates approved orders only.
type Summary struct {
	ApprovedCount int             `json:"approvedCount"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// Summary is recomputed from the ledger on every call.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Summary{Revenue: decimal.Zero}
	for _, o := range e.ledger.All() {
		if o.Status == orders.StatusApproved {
			s.ApprovedCount++
			s.Revenue = s.Revenue.Add(o.Total)
		}
	}
	return s
}

// OrdersForBuyer matches the buyer name exactly, most recent first.
func (e *Engine) OrdersForBuyer(name string) ([]orders.Order, error) {
	if name == "" {
		return nil, apperr.New(apperr.ErrValidation, "name required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.ByName(name), nil
}

func (e *Engine) Orders() []orders.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.All()
}

func (e *Engine) Items() []products.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.List()
}
