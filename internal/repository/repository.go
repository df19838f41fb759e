package repository

import (
	"context"
	"errors"

	"github.com/ross-moug/mongomart/internal/domain"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrCartNotFound  = errors.New("cart not found")
	ErrLineNotFound  = errors.New("item not found in cart")
	ErrDuplicateLine = errors.New("item already in cart")
)

// CatalogRepository defines the catalog data operations.
// Consumers define this interface, not the MongoDB implementation.
type CatalogRepository interface {
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
	Items(ctx context.Context, category string, page, pageSize int) ([]domain.Item, error)
	NumItems(ctx context.Context, category string) (int64, error)
	SearchItems(ctx context.Context, text string, page, pageSize int) ([]domain.Item, error)
	NumSearchItems(ctx context.Context, text string) (int64, error)
	Item(ctx context.Context, itemID int64) (*domain.Item, error)
	RelatedItems(ctx context.Context) ([]domain.Item, error)
	AddReview(ctx context.Context, itemID int64, review domain.Review) (*domain.Item, error)
}

// CartRepository defines the cart data operations.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ItemInCart(ctx context.Context, userID string, itemID int64) (*domain.CartLine, error)
	AddItem(ctx context.Context, userID string, line domain.CartLine) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}
