// Package stores selects and assembles the persistence backend from config.
package stores

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/config"
	"storefront/internal/orders"
	"storefront/internal/persist"
	"storefront/internal/products"
	"storefront/internal/stores/file"
	"storefront/internal/stores/jsonbin"
	"storefront/internal/stores/postgres"
	"storefront/internal/stores/redis"
	"storefront/pkg/logkey"
)

// Open builds the repository named by cfg.StoreBackend. Remote backends are
// wrapped in a Fallback onto the local files. The returned func releases
// connections.
func Open(ctx context.Context, cfg config.Config) (persist.Repository, func(), error) {
	local := file.New(cfg.DataDir, cfg.BackupDir)
	noop := func() {}

	switch cfg.StoreBackend {
	case config.BackendFile:
		return local, noop, nil

	case config.BackendJSONBin:
		remote := jsonbin.New(jsonbin.Config{
			BaseURL:     cfg.JSONBinBaseURL,
			ItemsBinID:  cfg.JSONBinItemsBinID,
			OrdersBinID: cfg.JSONBinOrdersBinID,
			MasterKey:   cfg.JSONBinMasterKey,
		}, nil)
		return NewFallback(remote, local), noop, nil

	case config.BackendRedis:
		client, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewFallback(redis.New(client, cfg.ServiceName), local), func() { client.Close() }, nil

	case config.BackendPostgres:
		pg, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return NewFallback(pg, local), pg.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Fallback reads and writes the primary first and uses the secondary when it
// fails. Loads also use the secondary when the primary was never written. A
// successful primary load is mirrored to the secondary so the local copy
// stays warm for the next outage.
type Fallback struct {
	Primary   persist.Repository
	Secondary persist.Repository
}

func NewFallback(primary, secondary persist.Repository) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

func (f *Fallback) Name() string { return f.Primary.Name() + "+" + f.Secondary.Name() }

func (f *Fallback) LoadItems(ctx context.Context) ([]products.Item, bool, error) {
	items, found, err := f.Primary.LoadItems(ctx)
	if err != nil {
		f.warn("loading items", err)
		return f.Secondary.LoadItems(ctx)
	}
	if !found {
		return f.Secondary.LoadItems(ctx)
	}
	f.mirror("items", func() error { return f.Secondary.SaveItems(ctx, items) })
	return items, true, nil
}

func (f *Fallback) LoadOrders(ctx context.Context) ([]orders.Order, bool, error) {
	all, found, err := f.Primary.LoadOrders(ctx)
	if err != nil {
		f.warn("loading orders", err)
		return f.Secondary.LoadOrders(ctx)
	}
	if !found {
		return f.Secondary.LoadOrders(ctx)
	}
	f.mirror("orders", func() error { return f.Secondary.SaveOrders(ctx, all) })
	return all, true, nil
}

func (f *Fallback) SaveItems(ctx context.Context, items []products.Item) error {
	if err := f.Primary.SaveItems(ctx, items); err != nil {
		f.warn("saving items", err)
		return f.Secondary.SaveItems(context.WithoutCancel(ctx), items)
	}
	return nil
}

func (f *Fallback) SaveOrders(ctx context.Context, all []orders.Order) error {
	if err := f.Primary.SaveOrders(ctx, all); err != nil {
		f.warn("saving orders", err)
		return f.Secondary.SaveOrders(context.WithoutCancel(ctx), all)
	}
	return nil
}

func (f *Fallback) warn(what string, err error) {
	slog.Warn(what+" failed, falling back",
		slog.String(logkey.Backend, f.Primary.Name()),
		slog.String("fallback", f.Secondary.Name()),
		slog.String(logkey.ERROR, err.Error()))
}

func (f *Fallback) mirror(what string, save func() error) {
	if err := save(); err != nil {
		slog.Error("mirroring "+what+" locally", slog.String(logkey.Backend, f.Secondary.Name()), slog.String(logkey.ERROR, err.Error()))
	}
}
