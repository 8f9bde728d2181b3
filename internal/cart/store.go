// Package cart holds the authoritative shopping cart and keeps its persisted snapshot in sync.
package cart

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/nikolayk812/ghostshop/internal/metrics"
	"github.com/nikolayk812/ghostshop/internal/port"
)

// DefaultKey is the storage key the snapshot lives under.
const DefaultKey = "ghost_cart"

// Store is safe for concurrent use. Mutations are applied and persisted in call order.
type Store struct {
	mu      sync.Mutex
	items   []domain.CartItem
	storage port.CartStorage
	key     string
	logger  *slog.Logger
	metrics metrics.CartRecorder
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithMetrics(recorder metrics.CartRecorder) Option {
	return func(s *Store) { s.metrics = recorder }
}

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// New loads the persisted snapshot. A missing, unreadable or invalid snapshot yields an empty cart.
func New(ctx context.Context, storage port.CartStorage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		logger:  slog.Default(),
		metrics: metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.CartItem {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.metrics.RecordPersistFailure("load")
		s.logger.Warn("failed to load cart, starting empty",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if !ok {
		return nil
	}

	items, err := decodeSnapshot(raw)
	if err != nil {
		s.metrics.RecordPersistFailure("decode")
		s.logger.Warn("discarding invalid cart snapshot",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return nil
	}

	s.logger.Debug("cart restored", slog.Int("items", len(items)))
	return items
}

// AddItem increments the quantity of an existing line or appends a new one with quantity 1.
// Price and name of an existing line are left as captured on first add.
func (s *Store) AddItem(ctx context.Context, entity domain.CatalogEntity) domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var item domain.CartItem
	if i := s.indexOf(entity.EntityID()); i >= 0 {
		s.items[i].Quantity++
		item = s.items[i]
	} else {
		item = domain.CartItem{
			ID:       entity.EntityID(),
			Name:     entity.DisplayName(),
			Price:    entity.UnitPrice(),
			Image:    entity.CartImage(),
			Quantity: 1,
			Type:     entity.ItemType(),
		}
		s.items = append(s.items, item)
	}

	s.metrics.RecordCartMutation("add")
	s.save(ctx)
	return item
}

// UpdateQuantity applies delta, clamping the result to 1. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.items[i].Quantity = max(1, s.items[i].Quantity+delta)
	}

	s.metrics.RecordCartMutation("update")
	s.save(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.DeleteFunc(s.items, func(item domain.CartItem) bool {
		return item.ID == id
	})

	s.metrics.RecordCartMutation("remove")
	s.save(ctx)
}

// Clear empties the cart and deletes the snapshot instead of writing an empty one.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.metrics.RecordCartMutation("clear")

	if _, err := s.storage.Delete(ctx, s.key); err != nil {
		s.metrics.RecordPersistFailure("delete")
		s.logger.Error("failed to delete cart snapshot",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Store) Cart() domain.Cart {
	return domain.Cart{Items: s.Items()}
}

func (s *Store) Count() int {
	return s.Cart().Count()
}

func (s *Store) Total() domain.Money {
	return s.Cart().Total()
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items) == 0
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item domain.CartItem) bool {
		return item.ID == id
	})
}

// save is best-effort; failures are logged and counted, not returned.
func (s *Store) save(ctx context.Context) {
	raw, err := encodeSnapshot(s.items)
	if err == nil {
		err = s.storage.Set(ctx, s.key, raw)
	}
	if err != nil {
		s.metrics.RecordPersistFailure("save")
		s.logger.Error("failed to persist cart",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
	}
}
