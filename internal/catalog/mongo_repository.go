package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/gentleman753/campuseats/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	canteens  *mongo.Collection
	menuItems *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CatalogRepository {
	return &mongoRepository{
		canteens:  db.Collection("canteens"),
		menuItems: db.Collection("menu_items"),
	}
}

func (m *mongoRepository) ListCanteens(ctx context.Context) ([]domain.Canteen, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.canteens.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list canteens: %w", err)
	}
	defer cursor.Close(ctx)

	var canteens []domain.Canteen
	if err := cursor.All(ctx, &canteens); err != nil {
		return nil, fmt.Errorf("failed to decode canteens: %w", err)
	}
	return canteens, nil
}

func (m *mongoRepository) GetCanteen(ctx context.Context, canteenID string) (*domain.Canteen, error) {
	var canteen domain.Canteen

	filter := bson.M{"_id": canteenID}
	err := m.canteens.FindOne(ctx, filter).Decode(&canteen)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCanteenNotFound
		}
		return nil, fmt.Errorf("failed to get canteen: %w", err)
	}

	return &canteen, nil
}

func (m *mongoRepository) GetMenu(ctx context.Context, canteenID string) ([]domain.MenuItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := m.menuItems.Find(ctx, bson.M{"canteen_id": canteenID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return items, nil
}

func (m *mongoRepository) GetMenuItem(ctx context.Context, canteenID, itemID string) (*domain.MenuItem, error) {
	var item domain.MenuItem

	// canteen_id is part of the filter so an item can never be fetched
	// under another canteen's path
	filter := bson.M{"_id": itemID, "canteen_id": canteenID}
	err := m.menuItems.FindOne(ctx, filter).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	return &item, nil
}

func (m *mongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "canteen_id", Value: 1}, {Key: "name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "canteen_id", Value: 1}, {Key: "is_available", Value: 1}},
		},
	}

	_, err := m.menuItems.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
