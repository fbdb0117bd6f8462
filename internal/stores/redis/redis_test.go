package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"storefront/internal/orders"
	"storefront/internal/products"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when REDIS_URL is set, e.g. redis://localhost:6379/15.
func TestStoreAgainstRedis(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	prefix := "storefront-test-" + uuid.NewString()
	s := New(client, prefix)
	defer client.Del(context.Background(), s.key("items"), s.key("orders"))

	_, found, err := s.LoadItems(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.SaveItems(ctx, []products.Item{{ID: "1", Title: "Fizz", Price: decimal.NewFromInt(2), Stock: 3}}))
	require.NoError(t, s.SaveOrders(ctx, []orders.Order{{ID: "o1", Name: "Alice", Quantity: 1, Status: orders.StatusApproved}}))

	items, found, err := s.LoadItems(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, items[0].Stock)

	all, found, err := s.LoadOrders(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, orders.StatusApproved, all[0].Status)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	assert.Error(t, err)
}
