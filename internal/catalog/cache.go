package catalog

import (
	"context"
	"errors"

	"github.com/gentleman753/campuseats/internal/domain"
)

// MenuCache caches catalog reads. Catalog data is read-only input to
// the storefront, so staleness within the TTL is acceptable.
type MenuCache interface {
	GetCanteens(ctx context.Context) ([]domain.Canteen, error)
	SetCanteens(ctx context.Context, canteens []domain.Canteen) error
	GetMenu(ctx context.Context, canteenID string) ([]domain.MenuItem, error)
	SetMenu(ctx context.Context, canteenID string, items []domain.MenuItem) error
}

var ErrCacheMiss = errors.New("cache miss")
