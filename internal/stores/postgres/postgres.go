// Package postgres stores the catalog and the ledger in normalized tables.
// Every save replaces the whole aggregate inside one transaction.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"storefront/internal/orders"
	"storefront/internal/persist"
	"storefront/internal/products"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, checks the connection and applies pending migrations.
func Connect(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate runs the embedded goose migrations through a database/sql handle
// borrowed from the pool.
func (s *Store) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Name() string { return "postgres" }

func (s *Store) saved(ctx context.Context, aggregate string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM aggregates WHERE name = $1)`, aggregate).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", aggregate, err)
	}
	return exists, nil
}

func (s *Store) LoadItems(ctx context.Context) ([]products.Item, bool, error) {
	found, err := s.saved(ctx, persist.ItemsKey)
	if err != nil || !found {
		return nil, false, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, title, price::text, description, stock, img, active
		FROM items ORDER BY position`)
	if err != nil {
		return nil, false, fmt.Errorf("query items: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (products.Item, error) {
		var it products.Item
		var price string
		if err := row.Scan(&it.ID, &it.Title, &price, &it.Description, &it.Stock, &it.Img, &it.Active); err != nil {
			return it, err
		}
		p, perr := decimal.NewFromString(price)
		it.Price = p
		return it, perr
	})
	if err != nil {
		return nil, false, fmt.Errorf("scan items: %w", err)
	}
	return items, true, nil
}

func (s *Store) LoadOrders(ctx context.Context) ([]orders.Order, bool, error) {
	found, err := s.saved(ctx, persist.OrdersKey)
	if err != nil || !found {
		return nil, false, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, item_id, item_title, item_price::text, quantity, total::text,
		       status, created_at, cancellation_reason
		FROM orders ORDER BY position`)
	if err != nil {
		return nil, false, fmt.Errorf("query orders: %w", err)
	}
	all, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (orders.Order, error) {
		var o orders.Order
		var price, total, status string
		if err := row.Scan(&o.ID, &o.Name, &o.Item.ID, &o.Item.Title, &price, &o.Quantity, &total,
			&status, &o.CreatedAt, &o.CancellationReason); err != nil {
			return o, err
		}
		o.Status = orders.Status(status)
		o.CreatedAt = o.CreatedAt.UTC()
		var perr, terr error
		o.Item.Price, perr = decimal.NewFromString(price)
		o.Total, terr = decimal.NewFromString(total)
		return o, errors.Join(perr, terr)
	})
	if err != nil {
		return nil, false, fmt.Errorf("scan orders: %w", err)
	}
	return all, true, nil
}

func (s *Store) SaveItems(ctx context.Context, items []products.Item) error {
	return s.replace(ctx, persist.ItemsKey, func(b *pgx.Batch) {
		b.Queue(`DELETE FROM items`)
		for i, it := range items {
			b.Queue(`INSERT INTO items (id, position, title, price, description, stock, img, active)
				VALUES ($1, $2, $3, $4::text::numeric, $5, $6, $7, $8)`,
				it.ID, i, it.Title, it.Price.String(), it.Description, it.Stock, it.Img, it.Active)
		}
	})
}

func (s *Store) SaveOrders(ctx context.Context, all []orders.Order) error {
	return s.replace(ctx, persist.OrdersKey, func(b *pgx.Batch) {
		b.Queue(`DELETE FROM orders`)
		for i, o := range all {
			b.Queue(`INSERT INTO orders (id, position, name, item_id, item_title, item_price, quantity, total,
					status, created_at, cancellation_reason)
				VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7, $8::text::numeric, $9, $10, $11)`,
				o.ID, i, o.Name, o.Item.ID, o.Item.Title, o.Item.Price.String(), o.Quantity, o.Total.String(),
				string(o.Status), o.CreatedAt, o.CancellationReason)
		}
	})
}

func (s *Store) replace(ctx context.Context, aggregate string, fill func(*pgx.Batch)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s save: %w", aggregate, err)
	}
	defer tx.Rollback(ctx)

	b := &pgx.Batch{}
	fill(b)
	b.Queue(`INSERT INTO aggregates (name, saved_at) VALUES ($1, NOW())
		ON CONFLICT (name) DO UPDATE SET saved_at = EXCLUDED.saved_at`, aggregate)

	if err := tx.SendBatch(ctx, b).Close(); err != nil {
		return fmt.Errorf("save %s: %w", aggregate, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s save: %w", aggregate, err)
	}
	return nil
}
