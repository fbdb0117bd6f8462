package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/orders"
	"storefront/internal/products"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := New(dir, "")

	_, found, err := s.LoadItems(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	items := []products.Item{{ID: "1", Title: "Fizz", Price: decimal.RequireFromString("2.50"), Stock: 4, Img: "/x.svg", Active: true}}
	require.NoError(t, s.SaveItems(ctx, items))
	require.NoError(t, s.SaveOrders(ctx, nil))

	got, found, err := s.LoadItems(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 4, got[0].Stock)

	all, found, err := s.LoadOrders(ctx)
	require.NoError(t, err)
	assert.True(t, found, "an empty ledger on disk is still a stored ledger")
	assert.Empty(t, all)

	raw, err := os.ReadFile(filepath.Join(dir, OrdersFile))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStoreWritesBackups(t *testing.T) {
	ctx := context.Background()
	dir, backups := t.TempDir(), filepath.Join(t.TempDir(), "backups")
	s := New(dir, backups)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 15, 123000000, time.UTC) }

	require.NoError(t, s.SaveOrders(ctx, []orders.Order{{ID: "o1", Name: "Alice", Quantity: 1, Status: orders.StatusPending}}))

	bak := filepath.Join(backups, "orders.json.2024-03-01T09-30-15-123Z.bak")
	data, err := os.ReadFile(bak)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Alice"`)
}

func TestStoreReadsLegacyWrappedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ItemsFile), []byte(`{"items":[{"id":"1","title":"A","price":"3","stock":1}]}`), 0o644))

	items, found, err := New(dir, "").LoadItems(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "3", items[0].Price.String())
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, OrdersFile), []byte(`[{"id":`), 0o644))

	_, _, err := New(dir, "").LoadOrders(context.Background())
	assert.Error(t, err)
}
