package catalog

import (
	"context"
	"errors"

	"github.com/gentleman753/campuseats/internal/domain"
)

var (
	ErrCanteenNotFound  = errors.New("canteen not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
)

// CatalogRepository defines the interface for canteen and menu reads.
// Consumers define this interface, not the MongoDB implementation.
type CatalogRepository interface {
	ListCanteens(ctx context.Context) ([]domain.Canteen, error)
	GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error)
	GetMenu(ctx context.Context, canteenID string) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error)
}
