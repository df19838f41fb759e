package domain

import "time"

// CategoryAll is the sentinel category meaning "no category filter".
const CategoryAll = "All"

type Item struct {
	ID          int64    `bson:"_id" json:"id"`
	Title       string   `bson:"title" json:"title"`
	Slogan      string   `bson:"slogan" json:"slogan"`
	Description string   `bson:"description" json:"description"`
	Stars       int      `bson:"stars" json:"stars"`
	Category    string   `bson:"category" json:"category"`
	ImageURL    string   `bson:"img_url" json:"imgUrl"`
	Price       float64  `bson:"price" json:"price"`
	Reviews     []Review `bson:"reviews" json:"reviews"`
}

// Review is append-only; ordering is insertion order.
type Review struct {
	Name    string    `bson:"name" json:"name"`
	Comment string    `bson:"comment" json:"comment"`
	Stars   int       `bson:"stars" json:"stars"`
	Date    time.Time `bson:"date" json:"date"`
}

// CategoryCount is one facet row: a category id and the number of
// distinct items in it. The "All" row carries the total item count.
type CategoryCount struct {
	ID    string `bson:"_id" json:"id"`
	Count int64  `bson:"num" json:"count"`
}
