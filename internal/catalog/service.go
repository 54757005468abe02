package catalog

import (
	"context"
	"errors"
	"log"

	"github.com/gentleman753/campuseats/internal/domain"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo  CatalogRepository
	cache MenuCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo CatalogRepository, cache MenuCache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

func (s *Service) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do("canteens", func() (interface{}, error) {
		canteens, err := s.cache.GetCanteens(ctx)
		if err == nil {
			return canteens, nil // canteen list is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		canteens, errGet := s.repo.ListCanteens(ctx)
		if errGet != nil {
			return nil, errGet
		}

		// set cache
		go func() {
			errSet := s.cache.SetCanteens(context.Background(), canteens)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return canteens, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Canteen), nil
}

// GetCanteen is not cached: canteen detail pages are rare compared to
// menu reads and the document is a single indexed lookup.
func (s *Service) GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error) {
	return s.repo.GetCanteen(ctx, canteenID)
}

func (s *Service) GetMenu(ctx context.Context, canteenID string) ([]domain.MenuItem, error) {
	v, err, _ := s.sfg.Do("menu:"+canteenID, func() (interface{}, error) {
		items, err := s.cache.GetMenu(ctx, canteenID)
		if err == nil {
			return items, nil // menu is in cache
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err)
		}

		items, errGet := s.repo.GetMenu(ctx, canteenID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			errSet := s.cache.SetMenu(context.Background(), canteenID, items)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return items, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.MenuItem), nil
}

// GetMenuItem fetches the add-to-cart snapshot. It always reads the
// repository so the snapshot carries the current price.
func (s *Service) GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error) {
	return s.repo.GetMenuItem(ctx, canteenID, itemID)
}
