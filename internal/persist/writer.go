package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"storefront/internal/orders"
	"storefront/internal/products"
	"storefront/pkg/logkey"
)

// DefaultTimeout bounds one save call against the backend.
const DefaultTimeout = 10 * time.Second

// SnapshotFunc returns the current state for autosave.
type SnapshotFunc func() ([]products.Item, []orders.Order)

// Writer keeps only the latest pending snapshot of each aggregate; several
// mutations between two writes collapse into one save. Failures are logged
// and the in-memory state stays authoritative.
type Writer struct {
	repo    Repository
	timeout time.Duration

	mu          sync.Mutex
	items       []products.Item
	itemsDirty  bool
	orders      []orders.Order
	ordersDirty bool
	wake        chan struct{}

	// writeMu serializes backend calls between Run and Flush.
	writeMu sync.Mutex
}

func NewWriter(repo Repository, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Writer{
		repo:    repo,
		timeout: timeout,
		wake:    make(chan struct{}, 1),
	}
}

// SaveItems queues items for the next write. It never blocks.
func (w *Writer) SaveItems(items []products.Item) {
	w.mu.Lock()
	w.items, w.itemsDirty = items, true
	w.mu.Unlock()
	w.signal()
}

// SaveOrders queues the ledger for the next write. It never blocks.
func (w *Writer) SaveOrders(all []orders.Order) {
	w.mu.Lock()
	w.orders, w.ordersDirty = all, true
	w.mu.Unlock()
	w.signal()
}

func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots as they arrive and, when autosave > 0, saves
// the whole state from snapshot on every tick. It returns when ctx is done
// without writing; call Flush for the final save.
func (w *Writer) Run(ctx context.Context, autosave time.Duration, snapshot SnapshotFunc) {
	var tick <-chan time.Time
	if autosave > 0 && snapshot != nil {
		ticker := time.NewTicker(autosave)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-w.wake:
			w.write(ctx)
		case <-tick:
			items, all := snapshot()
			w.SaveItems(items)
			w.SaveOrders(all)
			w.write(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Flush synchronously saves the given state, superseding anything queued.
func (w *Writer) Flush(ctx context.Context, items []products.Item, all []orders.Order) error {
	w.mu.Lock()
	w.items, w.itemsDirty = items, true
	w.orders, w.ordersDirty = all, true
	w.mu.Unlock()
	return w.write(ctx)
}

func (w *Writer) take() (items []products.Item, saveItems bool, all []orders.Order, saveOrders bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	items, saveItems = w.items, w.itemsDirty
	all, saveOrders = w.orders, w.ordersDirty
	w.items, w.itemsDirty = nil, false
	w.orders, w.ordersDirty = nil, false
	return
}

func (w *Writer) write(ctx context.Context) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	items, saveItems, all, saveOrders := w.take()
	var errs []error
	if saveOrders {
		errs = append(errs, w.call(ctx, "orders", func(ctx context.Context) error { return w.repo.SaveOrders(ctx, all) }))
	}
	if saveItems {
		errs = append(errs, w.call(ctx, "items", func(ctx context.Context) error { return w.repo.SaveItems(ctx, items) }))
	}
	return errors.Join(errs...)
}

func (w *Writer) call(ctx context.Context, what string, save func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := save(ctx); err != nil {
		err = fmt.Errorf("save %s to %s: %w", what, w.repo.Name(), err)
		slog.Error("persisting state failed", slog.String(logkey.Backend, w.repo.Name()), slog.String(logkey.ERROR, err.Error()))
		return err
	}
	slog.Debug("state persisted", slog.String(logkey.Backend, w.repo.Name()), slog.String("aggregate", what))
	return nil
}
