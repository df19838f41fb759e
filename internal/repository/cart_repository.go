package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ross-moug/mongomart/internal/domain"
	"github.com/ross-moug/mongomart/internal/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCartRepository struct {
	carts *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{
		carts: db.Collection("carts"),
	}
}

// GetCart returns the user's cart with lines flattened to top-level records.
// A user with no cart document gets an empty cart, never an error: absence is
// a normal outcome here.
func (m *MongoCartRepository) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cur, err := m.carts.Aggregate(ctx, query.CartLines(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var lines []domain.CartLine
	if err := cur.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart lines: %w", err)
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}

	return &domain.Cart{UserID: userID, Items: lines}, nil
}

// ItemInCart returns the matching cart line, or ErrLineNotFound when the
// user's cart holds no line for the item. Read-only.
func (m *MongoCartRepository) ItemInCart(ctx context.Context, userID string, itemID int64) (*domain.CartLine, error) {
	opts := options.FindOne().SetProjection(bson.M{"items.$": 1, "_id": 0})

	var doc struct {
		Items []domain.CartLine `bson:"items"`
	}
	err := m.carts.FindOne(ctx, query.ByUserAndItem{UserID: userID, ItemID: itemID}.Document(), opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to check cart line: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, ErrLineNotFound
	}

	return &doc.Items[0], nil
}

// AddItem atomically appends the line to the user's cart, creating the cart
// when absent. The filter only matches a cart without a line for this item;
// when the cart exists and already holds one, the upsert attempt collides
// with the unique user_id index and the duplicate-key error maps to
// ErrDuplicateLine. No caller-side check-then-act is needed.
func (m *MongoCartRepository) AddItem(ctx context.Context, userID string, line domain.CartLine) (*domain.Cart, error) {
	filter := query.ByUserWithoutItem{UserID: userID, ItemID: line.ID}.Document()
	update := bson.M{"$push": bson.M{"items": line}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cart domain.Cart
	err := m.carts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateLine
		}
		return nil, fmt.Errorf("failed to add cart line: %w", err)
	}
	return &cart, nil
}

// UpdateQuantity sets the line's quantity, or removes the line entirely when
// quantity is 0, and returns the post-update cart. A (user, item) pair with
// no matching line is ErrLineNotFound.
func (m *MongoCartRepository) UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) (*domain.Cart, error) {
	var update bson.M
	if quantity == 0 {
		update = bson.M{"$pull": bson.M{"items": bson.M{"_id": itemID}}}
	} else {
		update = bson.M{"$set": bson.M{"items.$.quantity": quantity}}
	}

	filter := query.ByUserAndItem{UserID: userID, ItemID: itemID}.Document()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var cart domain.Cart
	err := m.carts.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLineNotFound
		}
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}
	return &cart, nil
}

func (m *MongoCartRepository) ClearCart(ctx context.Context, userID string) error {
	result, err := m.carts.DeleteOne(ctx, query.ByUser{UserID: userID}.Document())
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

func (m *MongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.carts.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}
