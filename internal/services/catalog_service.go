package services

import (
	"context"
	"fmt"

	"alliedparts/internal/logger"
	"alliedparts/internal/models"
	"alliedparts/internal/repositories"
)

// ListingCache caches public listings. Implementations must be safe for concurrent use.
type ListingCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context, keys ...string) error
}

const (
	// HomePartsLimit is the size of the short parts listing.
	HomePartsLimit = 3
	// HomeReviewsLimit is the size of the short reviews listing.
	HomeReviewsLimit = 6
)

// AddReviewResult is the outcome of AddReview.
type AddReviewResult struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message,omitempty"`
	Result  *repositories.InsertResult `json:"result,omitempty"`
}

// CatalogService handles parts, reviews and blogs.
type CatalogService struct {
	parts   repositories.Collection
	reviews repositories.Collection
	blogs   repositories.Collection
	cache   ListingCache
}

// NewCatalogService creates a new CatalogService. cache may be nil.
func NewCatalogService(parts, reviews, blogs repositories.Collection, cache ListingCache) *CatalogService {
	return &CatalogService{
		parts:   parts,
		reviews: reviews,
		blogs:   blogs,
		cache:   cache,
	}
}

// GetParts returns parts newest first; limit <= 0 returns all of them.
func (s *CatalogService) GetParts(ctx context.Context, limit int64) ([]models.Document, error) {
	return s.listing(ctx, s.parts, limit, true)
}

// GetReviews returns reviews newest first; limit <= 0 returns all of them.
func (s *CatalogService) GetReviews(ctx context.Context, limit int64) ([]models.Document, error) {
	return s.listing(ctx, s.reviews, limit, true)
}

// GetBlogs returns every blog post.
func (s *CatalogService) GetBlogs(ctx context.Context) ([]models.Document, error) {
	return s.listing(ctx, s.blogs, 0, false)
}

// GetPartByID returns a single part.
func (s *CatalogService) GetPartByID(ctx context.Context, id string) (models.Document, error) {
	return s.parts.FindOne(ctx, repositories.Filter{ID: id})
}

// AddPart stores a new part.
func (s *CatalogService) AddPart(ctx context.Context, part models.Document) (*repositories.InsertResult, error) {
	result, err := s.parts.InsertOne(ctx, part)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, s.parts.Name())
	return result, nil
}

// DeletePart removes a part.
func (s *CatalogService) DeletePart(ctx context.Context, id string) (*repositories.DeleteResult, error) {
	result, err := s.parts.DeleteOne(ctx, repositories.Filter{ID: id})
	if err != nil {
		return nil, err
	}
	if result.DeletedCount > 0 {
		s.invalidate(ctx, s.parts.Name())
	}
	return result, nil
}

// AddReview stores review for uid unless uid already has one.
func (s *CatalogService) AddReview(ctx context.Context, uid string, review models.Document) (*AddReviewResult, error) {
	result, inserted, err := s.reviews.InsertIfAbsent(ctx, repositories.Filter{UID: uid}, review)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return &AddReviewResult{Success: false, Message: "Your Review Already exist !"}, nil
	}
	s.invalidate(ctx, s.reviews.Name())
	return &AddReviewResult{Success: true, Result: result}, nil
}

func (s *CatalogService) listing(ctx context.Context, coll repositories.Collection, limit int64, newest bool) ([]models.Document, error) {
	key := listingKey(coll.Name(), limit)
	if s.cache != nil {
		var cached []models.Document
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warningf("Listing cache read failed for %s: %v", key, err)
		} else if ok {
			return cached, nil
		}
	}

	docs, err := coll.Find(ctx, repositories.Filter{}, repositories.FindOptions{Newest: newest, Limit: limit})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, docs); err != nil {
			logger.Warningf("Listing cache write failed for %s: %v", key, err)
		}
	}
	return docs, nil
}

func (s *CatalogService) invalidate(ctx context.Context, name string) {
	if s.cache == nil {
		return
	}
	keys := []string{listingKey(name, 0)}
	switch name {
	case models.PartsCollection:
		keys = append(keys, listingKey(name, HomePartsLimit))
	case models.ReviewsCollection:
		keys = append(keys, listingKey(name, HomeReviewsLimit))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		logger.Warningf("Listing cache invalidation failed for %s: %v", name, err)
	}
}

func listingKey(name string, limit int64) string {
	if limit <= 0 {
		return name
	}
	return fmt.Sprintf("%s:%d", name, limit)
}
