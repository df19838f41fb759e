// Package query builds the filters and aggregation pipelines issued by the
// repositories. Each filter is a typed variant instead of an ad hoc document,
// so a repository method states which shape of query it runs.
package query

import (
	"github.com/ross-moug/mongomart/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Filter is one tagged filter variant.
type Filter interface {
	Document() bson.M
}

// MatchAll matches every document in a collection.
type MatchAll struct{}

func (MatchAll) Document() bson.M { return bson.M{} }

// ByCategory matches items with an exact category value.
type ByCategory struct {
	Category string
}

func (f ByCategory) Document() bson.M { return bson.M{"category": f.Category} }

// ForCategory returns the item filter for a category label, treating the
// "All" sentinel as no filter.
func ForCategory(category string) Filter {
	if category == domain.CategoryAll {
		return MatchAll{}
	}
	return ByCategory{Category: category}
}

// TextSearch matches items via the text index on title, slogan and description.
type TextSearch struct {
	Query string
}

func (f TextSearch) Document() bson.M {
	return bson.M{"$text": bson.M{"$search": f.Query}}
}

// ByItemID matches a single item by id.
type ByItemID struct {
	ItemID int64
}

func (f ByItemID) Document() bson.M { return bson.M{"_id": f.ItemID} }

// ByUser matches a user's cart document.
type ByUser struct {
	UserID string
}

func (f ByUser) Document() bson.M { return bson.M{"user_id": f.UserID} }

// ByUserAndItem matches a user's cart only when it holds a line for the item.
type ByUserAndItem struct {
	UserID string
	ItemID int64
}

func (f ByUserAndItem) Document() bson.M {
	return bson.M{"user_id": f.UserID, "items._id": f.ItemID}
}

// ByUserWithoutItem matches a user's cart only when it does NOT hold a line
// for the item. Combined with an upsert and the unique user_id index this
// makes "add if absent" a single atomic operation.
type ByUserWithoutItem struct {
	UserID string
	ItemID int64
}

func (f ByUserWithoutItem) Document() bson.M {
	return bson.M{"user_id": f.UserID, "items._id": bson.M{"$ne": f.ItemID}}
}

// CategoryFacets groups items by category, counting distinct item ids per
// group, sorted ascending by category id. Rows decode into
// domain.CategoryCount.
func CategoryFacets() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":      "$category",
			"products": bson.M{"$addToSet": "$_id"},
		}}},
		{{Key: "$project", Value: bson.M{
			"num": bson.M{"$size": "$products"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
}

// CartLines unwinds a user's cart items and flattens each element's nested
// fields so rows decode directly into domain.CartLine.
func CartLines(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: ByUser{UserID: userID}.Document()}},
		{{Key: "$project", Value: bson.M{"items": 1, "_id": 0}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$project", Value: bson.M{
			"_id":         "$items._id",
			"title":       "$items.title",
			"slogan":      "$items.slogan",
			"description": "$items.description",
			"stars":       "$items.stars",
			"category":    "$items.category",
			"img_url":     "$items.img_url",
			"price":       "$items.price",
			"reviews":     "$items.reviews",
			"quantity":    "$items.quantity",
		}}},
	}
}
