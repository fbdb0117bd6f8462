// Package shop is the storefront's consistency engine. Every check-and-mutate
// sequence on the catalog and the order ledger runs under one lock, so two
// buyers can never both take the last unit and a status can change only once.
package shop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/orders"
	"storefront/internal/products"
	"storefront/internal/ratelimit"
	"storefront/pkg/logkey"

	"github.com/google/uuid"
)

type Engine struct {
	mu       sync.Mutex
	catalog  *products.Catalog
	ledger   *orders.Ledger
	cooldown *ratelimit.Cooldown

	saver    Saver
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

type Option func(*Engine)

// WithClock replaces time.Now for order timestamps and cooldowns.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCooldown sets the per-buyer order cooldown. Zero disables it.
func WithCooldown(window time.Duration) Option {
	return func(e *Engine) { e.cooldown = ratelimit.NewCooldown(window) }
}

// WithOrderIDs replaces the order id generator.
func WithOrderIDs(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithSaver routes snapshots to s after every mutation.
func WithSaver(s Saver) Option {
	return func(e *Engine) { e.saver = s }
}

// WithNotifier routes change events to n after every mutation.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// New builds an engine over the given state. A nil items slice means the
// default catalog.
func New(items []products.Item, all []orders.Order, opts ...Option) *Engine {
	if items == nil {
		items = products.Default()
	}
	e := &Engine{
		catalog:  products.NewCatalog(items),
		ledger:   orders.NewLedger(all),
		cooldown: ratelimit.NewCooldown(ratelimit.DefaultWindow),
		saver:    discard{},
		notifier: discard{},
		now:      time.Now,
		newID:    func() string { return uuid.Must(uuid.NewV7()).String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open loads both aggregates through l. A failed or empty load is logged and
// replaced with the default catalog or an empty ledger; startup never fails on it.
func Open(ctx context.Context, l Loader, opts ...Option) *Engine {
	items, found, err := l.LoadItems(ctx)
	switch {
	case err != nil:
		slog.Error("loading items, using default catalog", slog.String(logkey.ERROR, err.Error()))
		items = nil
	case !found:
		slog.Info("no stored items, using default catalog")
		items = nil
	case items == nil:
		items = []products.Item{}
	}

	all, found, err := l.LoadOrders(ctx)
	switch {
	case err != nil:
		slog.Error("loading orders, starting with an empty ledger", slog.String(logkey.ERROR, err.Error()))
		all = nil
	case !found:
		all = nil
	}

	e := New(items, all, opts...)
	slog.Info("storefront state loaded", slog.Int("items", e.catalog.Len()), slog.Int("orders", e.ledger.Len()))
	return e
}

// Snapshot returns copies of both aggregates, taken atomically.
func (e *Engine) Snapshot() ([]products.Item, []orders.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalog.List(), e.ledger.All()
}

// SweepCooldowns drops expired cooldown entries.
func (e *Engine) SweepCooldowns() int {
	return e.cooldown.Sweep(e.now())
}

// persistItems and persistOrders must be called with mu held.
func (e *Engine) persistItems() { e.saver.SaveItems(e.catalog.List()) }
func (e *Engine) persistOrders() { e.saver.SaveOrders(e.ledger.All()) }
