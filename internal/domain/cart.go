package domain

// Cart holds one user's shopping cart. userID is the natural key;
// the document is created lazily by the first add.
type Cart struct {
	ID     string     `bson:"_id,omitempty" json:"-"`
	UserID string     `bson:"user_id" json:"userId"`
	Items  []CartLine `bson:"items" json:"items"`
}

// CartLine is one item entry in a cart: the catalog item's fields
// plus a positive quantity.
type CartLine struct {
	Item     `bson:",inline"`
	Quantity int `bson:"quantity" json:"quantity"`
}
