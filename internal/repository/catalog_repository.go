package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ross-moug/mongomart/internal/domain"
	"github.com/ross-moug/mongomart/internal/query"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// relatedItemCount is the fixed size of the RelatedItems sample.
const relatedItemCount = 4

type MongoCatalogRepository struct {
	items *mongo.Collection
	log   zerolog.Logger
}

func NewMongoCatalogRepository(db *mongo.Database, log zerolog.Logger) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		items: db.Collection("items"),
		log:   log,
	}
}

// Categories returns the facet rows, "All" first with the total item count,
// then one row per category sorted ascending. A failure of the facet
// aggregation degrades to the "All" row alone so a browsing page never fully
// fails on one facet query; a failure of the total count fails the call.
func (m *MongoCatalogRepository) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	total, err := m.items.CountDocuments(ctx, query.MatchAll{}.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	categories := []domain.CategoryCount{{ID: domain.CategoryAll, Count: total}}

	cur, err := m.items.Aggregate(ctx, query.CategoryFacets())
	if err != nil {
		m.log.Warn().Err(err).Msg("category facet aggregation failed, serving totals only")
		return categories, nil
	}

	var facets []domain.CategoryCount
	if err := cur.All(ctx, &facets); err != nil {
		m.log.Warn().Err(err).Msg("category facet decode failed, serving totals only")
		return categories, nil
	}

	return append(categories, facets...), nil
}

func (m *MongoCatalogRepository) Items(ctx context.Context, category string, page, pageSize int) ([]domain.Item, error) {
	return m.findItems(ctx, query.ForCategory(category), page, pageSize)
}

func (m *MongoCatalogRepository) NumItems(ctx context.Context, category string) (int64, error) {
	count, err := m.items.CountDocuments(ctx, query.ForCategory(category).Document())
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// SearchItems runs a full-text search over title, slogan and description
// against the items text index.
func (m *MongoCatalogRepository) SearchItems(ctx context.Context, text string, page, pageSize int) ([]domain.Item, error) {
	return m.findItems(ctx, query.TextSearch{Query: text}, page, pageSize)
}

func (m *MongoCatalogRepository) NumSearchItems(ctx context.Context, text string) (int64, error) {
	count, err := m.items.CountDocuments(ctx, query.TextSearch{Query: text}.Document())
	if err != nil {
		return 0, fmt.Errorf("failed to count search matches: %w", err)
	}
	return count, nil
}

func (m *MongoCatalogRepository) findItems(ctx context.Context, filter query.Filter, page, pageSize int) ([]domain.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page) * int64(pageSize)).
		SetLimit(int64(pageSize))

	cur, err := m.items.Find(ctx, filter.Document(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	var items []domain.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}

func (m *MongoCatalogRepository) Item(ctx context.Context, itemID int64) (*domain.Item, error) {
	var item domain.Item
	err := m.items.FindOne(ctx, query.ByItemID{ItemID: itemID}.Document()).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// RelatedItems returns a fixed-size sample of items used as supplementary
// display content. No relevance ranking.
func (m *MongoCatalogRepository) RelatedItems(ctx context.Context) ([]domain.Item, error) {
	cur, err := m.items.Find(ctx, query.MatchAll{}.Document(), options.Find().SetLimit(relatedItemCount))
	if err != nil {
		return nil, fmt.Errorf("failed to query related items: %w", err)
	}

	var items []domain.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode related items: %w", err)
	}
	return items, nil
}

// AddReview appends a review to the item's review sequence and returns the
// updated item.
func (m *MongoCatalogRepository) AddReview(ctx context.Context, itemID int64, review domain.Review) (*domain.Item, error) {
	update := bson.M{"$push": bson.M{"reviews": review}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item domain.Item
	err := m.items.FindOneAndUpdate(ctx, query.ByItemID{ItemID: itemID}.Document(), update, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to add review: %w", err)
	}
	return &item, nil
}

func (m *MongoCatalogRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "slogan", Value: "text"},
				{Key: "description", Value: "text"},
			},
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	}

	_, err := m.items.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create item indexes: %w", err)
	}
	return nil
}
