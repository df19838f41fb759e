package service

import (
	"context"
	"errors"

	"github.com/ross-moug/mongomart/internal/domain"
	"github.com/ross-moug/mongomart/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrNegativeQuantity rejects UpdateQuantity calls below zero; zero itself
// removes the line.
var ErrNegativeQuantity = errors.New("quantity must not be negative")

type CartService struct {
	repo repository.CartRepository
	log  zerolog.Logger
	sfg  singleflight.Group // collapses concurrent reads of the same cart
}

func NewCartService(repo repository.CartRepository, log zerolog.Logger) *CartService {
	return &CartService{repo: repo, log: log}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		return s.repo.GetCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// InCart returns the user's cart line for the item, or nil when the item is
// not in the cart. Absence is a normal outcome, not an error.
func (s *CartService) InCart(ctx context.Context, userID string, itemID int64) (*domain.CartLine, error) {
	line, err := s.repo.ItemInCart(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrLineNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return line, nil
}

// AddItem puts the line into the user's cart, creating the cart when needed.
// A non-positive quantity defaults to 1. Adding an item already in the cart
// fails with repository.ErrDuplicateLine.
func (s *CartService) AddItem(ctx context.Context, userID string, line domain.CartLine) (*domain.Cart, error) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}

	cart, err := s.repo.AddItem(ctx, userID, line)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Int64("item_id", line.ID).Msg("add cart line failed")
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the line's quantity, removing the line when quantity
// is 0. A pair with no matching line fails with repository.ErrLineNotFound.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, itemID int64, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	cart, err := s.repo.UpdateQuantity(ctx, userID, itemID, quantity)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Int64("item_id", itemID).Msg("update cart line failed")
		return nil, err
	}
	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("clear cart failed")
		return err
	}
	return nil
}
