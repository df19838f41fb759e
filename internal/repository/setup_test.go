package repository

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/ross-moug/mongomart/internal/domain"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

func startMongo(t *testing.T) (*mongo.Database, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := Connect(ctx, uri, "testdb")
	require.NoError(t, err)

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

// fixtureItems is the catalog every test starts from: 8 items over 4
// categories, item 1 carrying one pre-existing review, items 7 and 8 the only
// ones whose text mentions rain.
func fixtureItems() []domain.Item {
	item := func(id int64, title, slogan, description, category string) domain.Item {
		return domain.Item{
			ID:          id,
			Title:       title,
			Slogan:      slogan,
			Description: description,
			Category:    category,
			ImageURL:    gofakeit.URL(),
			Price:       gofakeit.Price(5, 50),
			Reviews:     []domain.Review{},
		}
	}

	items := []domain.Item{
		item(1, "Gray Hooded Sweatshirt", "Made of 100% cotton", "The top hooded sweatshirt we offer", "Apparel"),
		item(2, "Green T-Shirt", "Soft jersey knit", "Classic fit tee with a leaf logo", "Apparel"),
		item(3, "Logo Baseball Cap", "One size fits most", "Adjustable cotton twill cap", "Apparel"),
		item(4, "Ceramic Coffee Mug", "Holds a full morning", "12oz mug, dishwasher safe", "Kitchen"),
		item(5, "Insulated Water Bottle", "Cold for 24 hours", "Stainless steel bottle, 750ml", "Kitchen"),
		item(6, "Laptop Sticker Pack", "Ten designs per pack", "Weatherproof vinyl stickers", "Stickers"),
		item(7, "Travel Umbrella", "Fits in any bag", "Keeps the rain off the morning commute", "Umbrellas"),
		item(8, "Golf Umbrella", "Rain ready, wind proof", "Oversized canopy for two", "Umbrellas"),
	}

	items[0].Reviews = []domain.Review{{
		Name:    gofakeit.Name(),
		Comment: gofakeit.Sentence(6),
		Stars:   4,
		Date:    gofakeit.PastDate(),
	}}

	return items
}

func seedCatalog(t *testing.T, db *mongo.Database) {
	ctx := context.Background()

	items := fixtureItems()
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}

	_, err := db.Collection("items").InsertMany(ctx, docs)
	require.NoError(t, err)
}
