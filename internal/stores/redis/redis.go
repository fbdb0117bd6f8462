// Package redis keeps each aggregate as one JSON document under a string key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/orders"
	"storefront/internal/persist"
	"storefront/internal/products"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "storefront"

type Store struct {
	client redis.Cmdable
	prefix string
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func New(client redis.Cmdable, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Name() string { return "redis" }

func (s *Store) key(aggregate string) string { return s.prefix + ":" + aggregate }

func (s *Store) LoadItems(ctx context.Context) ([]products.Item, bool, error) {
	raw, err := s.load(ctx, persist.ItemsKey)
	if err != nil || raw == nil {
		return nil, false, err
	}
	return persist.DecodeItems(raw)
}

func (s *Store) LoadOrders(ctx context.Context) ([]orders.Order, bool, error) {
	raw, err := s.load(ctx, persist.OrdersKey)
	if err != nil || raw == nil {
		return nil, false, err
	}
	return persist.DecodeOrders(raw)
}

func (s *Store) SaveItems(ctx context.Context, items []products.Item) error {
	if items == nil {
		items = []products.Item{}
	}
	return s.save(ctx, persist.ItemsKey, items)
}

func (s *Store) SaveOrders(ctx context.Context, all []orders.Order) error {
	if all == nil {
		all = []orders.Order{}
	}
	return s.save(ctx, persist.OrdersKey, all)
}

func (s *Store) load(ctx context.Context, aggregate string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(aggregate)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key(aggregate), err)
	}
	return raw, nil
}

func (s *Store) save(ctx context.Context, aggregate string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", aggregate, err)
	}
	if err := s.client.Set(ctx, s.key(aggregate), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key(aggregate), err)
	}
	return nil
}
