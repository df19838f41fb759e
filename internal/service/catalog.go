package service

import (
	"context"
	"time"

	"github.com/ross-moug/mongomart/internal/domain"
	"github.com/ross-moug/mongomart/internal/repository"
	"golang.org/x/sync/singleflight"
)

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 20

// CatalogService fronts the catalog repository for request handlers:
// it normalizes paging parameters and collapses concurrent identical
// facet reads.
type CatalogService struct {
	repo repository.CatalogRepository
	sfg  singleflight.Group
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.CategoryCount, error) {
	// Facet counts are identical for every caller, so concurrent requests
	// share one store round-trip.
	v, err, _ := s.sfg.Do("categories", func() (interface{}, error) {
		return s.repo.Categories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.CategoryCount), nil
}

func (s *CatalogService) Items(ctx context.Context, category string, page, pageSize int) ([]domain.Item, error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.repo.Items(ctx, category, page, pageSize)
}

func (s *CatalogService) NumItems(ctx context.Context, category string) (int64, error) {
	return s.repo.NumItems(ctx, category)
}

func (s *CatalogService) SearchItems(ctx context.Context, text string, page, pageSize int) ([]domain.Item, error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.repo.SearchItems(ctx, text, page, pageSize)
}

func (s *CatalogService) NumSearchItems(ctx context.Context, text string) (int64, error) {
	return s.repo.NumSearchItems(ctx, text)
}

func (s *CatalogService) Item(ctx context.Context, itemID int64) (*domain.Item, error) {
	return s.repo.Item(ctx, itemID)
}

func (s *CatalogService) RelatedItems(ctx context.Context) ([]domain.Item, error) {
	return s.repo.RelatedItems(ctx)
}

// AddReview appends a review and returns the updated item. A zero date is
// stamped with the current time.
func (s *CatalogService) AddReview(ctx context.Context, itemID int64, name, comment string, stars int, date time.Time) (*domain.Item, error) {
	if date.IsZero() {
		date = time.Now()
	}
	review := domain.Review{
		Name:    name,
		Comment: comment,
		Stars:   stars,
		Date:    date,
	}
	return s.repo.AddReview(ctx, itemID, review)
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
