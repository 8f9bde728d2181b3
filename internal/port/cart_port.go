package port

import (
	"context"

	"github.com/nikolayk812/ghostshop/internal/domain"
)

// CartStorage is the key-value bridge the cart snapshot is persisted through.
type CartStorage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) (bool, error)
}

// RateSource supplies the latest known exchange rates.
type RateSource interface {
	Rates() domain.Rates
}
