package stores

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/config"
	"storefront/internal/orders"
	"storefront/internal/products"
	"storefront/internal/stores/file"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenRepo struct{ err error }

func (b brokenRepo) Name() string { return "broken" }
func (b brokenRepo) LoadItems(context.Context) ([]products.Item, bool, error) {
	return nil, false, b.err
}
func (b brokenRepo) LoadOrders(context.Context) ([]orders.Order, bool, error) {
	return nil, false, b.err
}
func (b brokenRepo) SaveItems(context.Context, []products.Item) error { return b.err }
func (b brokenRepo) SaveOrders(context.Context, []orders.Order) error { return b.err }

func TestFallbackUsesSecondaryWhenPrimaryFails(t *testing.T) {
	ctx := context.Background()
	local := file.New(t.TempDir(), "")
	f := NewFallback(brokenRepo{err: errors.New("timeout")}, local)
	assert.Equal(t, "broken+file", f.Name())

	items := []products.Item{{ID: "1", Title: "Fizz", Price: decimal.NewFromInt(2), Stock: 1}}
	require.NoError(t, f.SaveItems(ctx, items))
	require.NoError(t, f.SaveOrders(ctx, []orders.Order{}))

	got, found, err := f.LoadItems(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Fizz", got[0].Title)

	_, found, err = f.LoadOrders(ctx)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFallbackMirrorsPrimaryLoads(t *testing.T) {
	ctx := context.Background()
	remote := file.New(t.TempDir(), "")
	local := file.New(t.TempDir(), "")
	require.NoError(t, remote.SaveItems(ctx, []products.Item{{ID: "r", Title: "Remote", Price: decimal.NewFromInt(1)}}))

	f := NewFallback(remote, local)
	got, found, err := f.LoadItems(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "r", got[0].ID)

	mirrored, found, err := local.LoadItems(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "r", mirrored[0].ID)

	_, found, err = f.LoadOrders(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, _ = local.LoadOrders(ctx)
	assert.False(t, found, "nothing to mirror when the primary has no ledger")
}

func TestFallbackReadsLocalWhenPrimaryIsEmpty(t *testing.T) {
	ctx := context.Background()
	local := file.New(t.TempDir(), "")
	require.NoError(t, local.SaveItems(ctx, []products.Item{{ID: "x", Title: "Local", Price: decimal.NewFromInt(3)}}))
	require.NoError(t, local.SaveOrders(ctx, []orders.Order{{ID: "o1", Name: "Alice", Status: orders.StatusPending}}))

	f := NewFallback(brokenRepo{}, local)

	items, found, err := f.LoadItems(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, items, 1)
	assert.Equal(t, "x", items[0].ID)

	all, found, err := f.LoadOrders(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, all, 1)
	assert.Equal(t, "o1", all[0].ID)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	repo, closeFn, err := Open(ctx, config.Config{StoreBackend: config.BackendFile, DataDir: t.TempDir()})
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, "file", repo.Name())

	repo, closeFn, err = Open(ctx, config.Config{StoreBackend: config.BackendJSONBin, DataDir: t.TempDir(), JSONBinItemsBinID: "x"})
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, "jsonbin+file", repo.Name())

	_, _, err = Open(ctx, config.Config{StoreBackend: "s3"})
	assert.Error(t, err)
}
