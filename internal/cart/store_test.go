package cart_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/ghostshop/internal/cart"
	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/nikolayk812/ghostshop/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestAddItem(t *testing.T) {
	tests := []struct {
		name      string
		adds      []domain.CatalogEntity
		wantItems []domain.CartItem
	}{
		{
			name: "add product: ok",
			adds: []domain.CatalogEntity{product("a", "10")},
			wantItems: []domain.CartItem{
				{ID: "a", Name: "name-a", Price: eur("10"), Image: "img-a", Quantity: 1, Type: domain.ItemTypeProduct},
			},
		},
		{
			name: "add same product twice: quantity incremented",
			adds: []domain.CatalogEntity{product("a", "10"), product("a", "10")},
			wantItems: []domain.CartItem{
				{ID: "a", Name: "name-a", Price: eur("10"), Image: "img-a", Quantity: 2, Type: domain.ItemTypeProduct},
			},
		},
		{
			name: "re-add with changed catalog price: captured price kept",
			adds: []domain.CatalogEntity{product("a", "10"), product("a", "12.50")},
			wantItems: []domain.CartItem{
				{ID: "a", Name: "name-a", Price: eur("10"), Image: "img-a", Quantity: 2, Type: domain.ItemTypeProduct},
			},
		},
		{
			name: "add bundle: fallback image and bundle type",
			adds: []domain.CatalogEntity{bundle("b-base", "79.99")},
			wantItems: []domain.CartItem{
				{ID: "b-base", Name: "name-b-base", Price: eur("79.99"), Image: domain.BundleFallbackImage, Quantity: 1, Type: domain.ItemTypeBundle},
			},
		},
		{
			name: "insertion order preserved: ok",
			adds: []domain.CatalogEntity{product("b", "1"), product("a", "2"), product("b", "1")},
			wantItems: []domain.CartItem{
				{ID: "b", Name: "name-b", Price: eur("1"), Image: "img-b", Quantity: 2, Type: domain.ItemTypeProduct},
				{ID: "a", Name: "name-a", Price: eur("2"), Image: "img-a", Quantity: 1, Type: domain.ItemTypeProduct},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := cart.New(ctx, repository.NewMemoryStorage())

			for _, entity := range tt.adds {
				store.AddItem(ctx, entity)
			}

			assertItems(t, tt.wantItems, store.Items())
		})
	}
}

func TestAddItemRepeatedly(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, repository.NewMemoryStorage())
	n := gofakeit.Number(1, 50)

	for range n {
		store.AddItem(ctx, product("a", "3"))
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, n, items[0].Quantity)
	assert.Equal(t, n, store.Count())
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name         string
		initial      int
		id           string
		delta        int
		wantQuantity int
	}{
		{name: "increment: ok", initial: 1, id: "a", delta: 1, wantQuantity: 2},
		{name: "decrement: ok", initial: 3, id: "a", delta: -1, wantQuantity: 2},
		{name: "decrement below one: clamped", initial: 2, id: "a", delta: -5, wantQuantity: 1},
		{name: "decrement at one: stays one", initial: 1, id: "a", delta: -1, wantQuantity: 1},
		{name: "zero delta: unchanged", initial: 4, id: "a", delta: 0, wantQuantity: 4},
		{name: "unknown id: no-op", initial: 2, id: "missing", delta: 3, wantQuantity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := cart.New(ctx, repository.NewMemoryStorage())
			for range tt.initial {
				store.AddItem(ctx, product("a", "10"))
			}

			store.UpdateQuantity(ctx, tt.id, tt.delta)

			items := store.Items()
			require.Len(t, items, 1)
			assert.Equal(t, tt.wantQuantity, items[0].Quantity)
		})
	}
}

func TestUpdateQuantityNeverBelowOne(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, repository.NewMemoryStorage())
	store.AddItem(ctx, product("a", "10"))

	for range 100 {
		delta := gofakeit.Number(-1000, 1000)
		before := store.Items()[0].Quantity

		store.UpdateQuantity(ctx, "a", delta)

		assert.Equal(t, max(1, before+delta), store.Items()[0].Quantity)
	}
}

func TestRemoveItem(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, repository.NewMemoryStorage())

	store.AddItem(ctx, product("a", "10"))
	store.AddItem(ctx, product("a", "10"))
	store.AddItem(ctx, product("b", "5"))

	store.RemoveItem(ctx, "missing")
	assert.Len(t, store.Items(), 2)

	store.RemoveItem(ctx, "a")
	assertItems(t, []domain.CartItem{
		{ID: "b", Name: "name-b", Price: eur("5"), Image: "img-b", Quantity: 1, Type: domain.ItemTypeProduct},
	}, store.Items())

	// no residual quantity after removal
	item := store.AddItem(ctx, product("a", "10"))
	assert.Equal(t, 1, item.Quantity)
}

func TestTotals(t *testing.T) {
	ctx := t.Context()
	store := cart.New(ctx, repository.NewMemoryStorage())

	assert.True(t, store.IsEmpty())
	assert.True(t, decimal.Zero.Equal(store.Total().Amount))

	store.AddItem(ctx, product("a", "10"))
	store.AddItem(ctx, product("a", "10"))
	assert.True(t, decimal.NewFromInt(20).Equal(store.Total().Amount))

	store.AddItem(ctx, product("b", "7.25"))
	store.RemoveItem(ctx, "b")

	items := store.Items()
	require.Len(t, items, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(items[0].Price.Amount))
	assert.True(t, decimal.NewFromInt(20).Equal(store.Total().Amount))
	assert.Equal(t, 2, store.Count())
	assert.False(t, store.IsEmpty())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := t.Context()
	storage := repository.NewMemoryStorage()

	store := cart.New(ctx, storage)
	for range gofakeit.Number(1, 5) {
		store.AddItem(ctx, randomProduct())
	}
	store.AddItem(ctx, bundle("b-ghost", "1499"))
	store.UpdateQuantity(ctx, "b-ghost", 2)

	reloaded := cart.New(ctx, storage)

	assertItems(t, store.Items(), reloaded.Items())
}

func TestClear(t *testing.T) {
	ctx := t.Context()
	storage := repository.NewMemoryStorage()

	store := cart.New(ctx, storage)
	store.AddItem(ctx, product("a", "1"))
	store.AddItem(ctx, product("b", "2"))
	store.AddItem(ctx, bundle("c", "3"))

	store.Clear(ctx)

	assert.True(t, store.IsEmpty())
	_, ok, err := storage.Get(ctx, cart.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok, "snapshot must be deleted")

	assert.Empty(t, cart.New(ctx, storage).Items())
}

func TestRemoveToEmptyPersistsEmptyArray(t *testing.T) {
	ctx := t.Context()
	storage := repository.NewMemoryStorage()

	store := cart.New(ctx, storage)
	store.AddItem(ctx, product("a", "1"))
	store.RemoveItem(ctx, "a")

	raw, ok, err := storage.Get(ctx, cart.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestNewWithInvalidSnapshot(t *testing.T) {
	tests := []struct {
		name     string
		snapshot string
	}{
		{name: "not json", snapshot: `{not json`},
		{name: "object instead of array", snapshot: `{"id":"a"}`},
		{name: "zero quantity", snapshot: `[{"id":"a","name":"A","price":1,"image":"","quantity":0,"type":"product"}]`},
		{name: "empty id", snapshot: `[{"id":"","name":"A","price":1,"image":"","quantity":1,"type":"product"}]`},
		{name: "unknown type", snapshot: `[{"id":"a","name":"A","price":1,"image":"","quantity":1,"type":"service"}]`},
		{name: "negative price", snapshot: `[{"id":"a","name":"A","price":-1,"image":"","quantity":1,"type":"product"}]`},
		{name: "duplicate ids", snapshot: `[{"id":"a","name":"A","price":1,"image":"","quantity":1,"type":"product"},{"id":"a","name":"A","price":1,"image":"","quantity":2,"type":"product"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			storage := repository.NewMemoryStorage()
			require.NoError(t, storage.Set(ctx, cart.DefaultKey, []byte(tt.snapshot)))

			var logs bytes.Buffer
			store := cart.New(ctx, storage, cart.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

			assert.True(t, store.IsEmpty())
			assert.Contains(t, logs.String(), "discarding invalid cart snapshot")
		})
	}
}

func TestNewWithLegacySnapshot(t *testing.T) {
	ctx := t.Context()
	storage := repository.NewMemoryStorage()
	snapshot := `[
		{"id":"usb-tails","name":"USB Ghost Key","price":49.99,"image":"img","quantity":2,"type":"product"},
		{"id":"b-base","name":"BASE PROTOCOL","price":"79.99","image":"fallback","quantity":1,"type":"bundle"}
	]`
	require.NoError(t, storage.Set(ctx, cart.DefaultKey, []byte(snapshot)))

	store := cart.New(ctx, storage)

	assertItems(t, []domain.CartItem{
		{ID: "usb-tails", Name: "USB Ghost Key", Price: eur("49.99"), Image: "img", Quantity: 2, Type: domain.ItemTypeProduct},
		{ID: "b-base", Name: "BASE PROTOCOL", Price: eur("79.99"), Image: "fallback", Quantity: 1, Type: domain.ItemTypeBundle},
	}, store.Items())
	assert.True(t, decimal.RequireFromString("179.97").Equal(store.Total().Amount))
}

func TestStorageFailuresAreAbsorbed(t *testing.T) {
	ctx := t.Context()
	storage := &failingStorage{err: errors.New("disk on fire")}

	store := cart.New(ctx, storage)
	assert.True(t, store.IsEmpty())

	store.AddItem(ctx, product("a", "10"))
	store.UpdateQuantity(ctx, "a", 1)
	store.RemoveItem(ctx, "missing")
	store.Clear(ctx)

	assert.True(t, store.IsEmpty())
	assert.Equal(t, 3, storage.sets)
	assert.Equal(t, 1, storage.deletes)
}

func TestWithKey(t *testing.T) {
	ctx := t.Context()
	storage := repository.NewMemoryStorage()

	store := cart.New(ctx, storage, cart.WithKey("other_cart"))
	store.AddItem(ctx, product("a", "1"))

	_, ok, err := storage.Get(ctx, "other_cart")
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = storage.Get(ctx, cart.DefaultKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingStorage struct {
	err     error
	sets    int
	deletes int
}

func (f *failingStorage) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.err
}

func (f *failingStorage) Set(context.Context, string, []byte) error {
	f.sets++
	return f.err
}

func (f *failingStorage) Delete(context.Context, string) (bool, error) {
	f.deletes++
	return false, f.err
}

func eur(amount string) domain.Money {
	return domain.EUR(decimal.RequireFromString(amount))
}

func product(id, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "name-" + id,
		Price: eur(price),
		Image: "img-" + id,
	}
}

func bundle(id, price string) domain.Bundle {
	return domain.Bundle{
		ID:    id,
		Tier:  domain.TierBase,
		Name:  "name-" + id,
		Price: eur(price),
	}
}

func randomProduct() domain.Product {
	return domain.Product{
		ID:    gofakeit.UUID(),
		Name:  gofakeit.ProductName(),
		Price: domain.EUR(decimal.NewFromFloat(gofakeit.Price(1, 1000))),
		Image: gofakeit.URL(),
	}
}

func assertItems(t *testing.T, expected, actual []domain.CartItem) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)
}
