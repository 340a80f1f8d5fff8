package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CampiteliRafael/cartEcommerce/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxAddAttempts bounds the increment/push retry loop in AddItem. A retry only
// happens when a concurrent writer created the same line between our two
// conditional updates.
const maxAddAttempts = 3

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection(cartsCollection),
	}
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

func (m *mongoCartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoCartRepository) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	now := time.Now().UTC()
	if item.AddedAt.IsZero() {
		item.AddedAt = now
	}

	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		// Merge into an existing line
		var cart domain.Cart
		err := m.collection.FindOneAndUpdate(ctx,
			bson.M{"user_id": userID, "items.product_id": item.ProductID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": item.Quantity, "version": 1},
				"$set": bson.M{"updated_at": now},
			},
			afterUpdate(),
		).Decode(&cart)
		if err == nil {
			return &cart, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to increment item: %w", err)
		}

		// No such line: push it, creating the cart when needed. If the cart
		// gained the line in the meantime the filter misses, the upsert
		// collides with the unique user_id index and we go back to $inc.
		err = m.collection.FindOneAndUpdate(ctx,
			bson.M{"user_id": userID, "items.product_id": bson.M{"$ne": item.ProductID}},
			bson.M{
				"$push":        bson.M{"items": item},
				"$inc":         bson.M{"version": 1},
				"$set":         bson.M{"updated_at": now},
				"$setOnInsert": bson.M{"created_at": now},
			},
			afterUpdate().SetUpsert(true),
		).Decode(&cart)
		if err == nil {
			return &cart, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to add new item: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to add item after %d attempts: concurrent updates", maxAddAttempts)
}

func (m *mongoCartRepository) SetItemQuantity(ctx context.Context, userID string, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	filter := bson.M{
		"user_id":          userID,
		"items.product_id": productID,
	}

	update := bson.M{
		"$set": bson.M{
			"items.$.quantity": quantity,
			"updated_at":       time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	var cart domain.Cart
	err := m.collection.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update item quantity: %w", err)
	}

	return &cart, nil
}

func (m *mongoCartRepository) RemoveItem(ctx context.Context, userID string, productID primitive.ObjectID) (*domain.Cart, error) {
	filter := bson.M{
		"user_id":          userID,
		"items.product_id": productID,
	}
	update := bson.M{
		"$pull": bson.M{
			"items": bson.M{"product_id": productID},
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}

	var cart domain.Cart
	err := m.collection.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	return &cart, nil
}

func (m *mongoCartRepository) ClearItems(ctx context.Context, userID string) (*domain.Cart, error) {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"items":      []domain.CartItem{},
			"updated_at": time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}

	var cart domain.Cart
	err := m.collection.FindOneAndUpdate(ctx, filter, update, afterUpdate()).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	return &cart, nil
}
