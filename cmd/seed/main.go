// Command seed provisions a MongoMart database: it creates the catalog text
// index and the cart uniqueness index, then loads catalog items from a JSON
// file or a built-in sample set. The accessors assume both indexes exist.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/ross-moug/mongomart/internal/domain"
	"github.com/ross-moug/mongomart/internal/repository"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type config struct {
	MongoURI string `envconfig:"MONGOMART_MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGOMART_MONGO_DB" default:"mongomart"`
}

func main() {
	dataFile := flag.String("data", "", "JSON file of catalog items (default: built-in sample set)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()

	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := repository.Connect(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(ctx)

	catalog := repository.NewMongoCatalogRepository(db, log)
	carts := repository.NewMongoCartRepository(db)

	if err := catalog.CreateIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create catalog indexes")
	}
	if err := carts.CreateIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create cart indexes")
	}
	log.Info().Msg("indexes created")

	items := sampleItems()
	if *dataFile != "" {
		items, err = loadItems(*dataFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", *dataFile).Msg("failed to load items")
		}
	}

	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}

	// Unordered insert so a re-run skips items already present.
	res, err := db.Collection("items").InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		log.Fatal().Err(err).Msg("failed to insert items")
	}

	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	log.Info().Int("inserted", inserted).Int("total", len(items)).Msg("catalog seeded")
}

func loadItems(path string) ([]domain.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse items file: %w", err)
	}
	return items, nil
}

func sampleItems() []domain.Item {
	return []domain.Item{
		{
			ID:          1,
			Title:       "Gray Hooded Sweatshirt",
			Slogan:      "Made of 100% cotton",
			Description: "The top hooded sweatshirt we offer",
			Category:    "Apparel",
			ImageURL:    "/img/products/hoodie.jpg",
			Price:       29.99,
			Reviews:     []domain.Review{},
		},
		{
			ID:          2,
			Title:       "Green T-Shirt",
			Slogan:      "Soft jersey knit",
			Description: "Classic fit tee with a leaf logo",
			Category:    "Apparel",
			ImageURL:    "/img/products/tshirt.jpg",
			Price:       14.99,
			Reviews:     []domain.Review{},
		},
		{
			ID:          3,
			Title:       "Ceramic Coffee Mug",
			Slogan:      "Holds a full morning",
			Description: "12oz mug, dishwasher and microwave safe",
			Category:    "Kitchen",
			ImageURL:    "/img/products/mug.jpg",
			Price:       9.99,
			Reviews:     []domain.Review{},
		},
		{
			ID:          4,
			Title:       "Laptop Sticker Pack",
			Slogan:      "Ten designs per pack",
			Description: "Weatherproof vinyl stickers",
			Category:    "Stickers",
			ImageURL:    "/img/products/stickers.jpg",
			Price:       4.99,
			Reviews:     []domain.Review{},
		},
		{
			ID:          5,
			Title:       "Compact Umbrella",
			Slogan:      "Fits in any bag",
			Description: "Windproof folding umbrella with auto open",
			Category:    "Umbrellas",
			ImageURL:    "/img/products/umbrella.jpg",
			Price:       24.99,
			Reviews:     []domain.Review{},
		},
		{
			ID:          6,
			Title:       "Insulated Water Bottle",
			Slogan:      "Cold for 24 hours",
			Description: "Stainless steel bottle, 750ml",
			Category:    "Kitchen",
			ImageURL:    "/img/products/bottle.jpg",
			Price:       19.99,
			Reviews:     []domain.Review{},
		},
	}
}
