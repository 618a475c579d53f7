package repositories

import (
	"context"
	"fmt"

	"alliedparts/internal/models"
)

// Store exposes the named collections of the Allied Parts database.
type Store struct {
	Parts   Collection
	Users   Collection
	Reviews Collection
	Orders  Collection
	Blogs   Collection

	closeFn func(ctx context.Context) error
}

// newStore builds a Store by asking open for each collection name.
func newStore(open func(name string) Collection, closeFn func(ctx context.Context) error) *Store {
	return &Store{
		Parts:   open(models.PartsCollection),
		Users:   open(models.UsersCollection),
		Reviews: open(models.ReviewsCollection),
		Orders:  open(models.OrdersCollection),
		Blogs:   open(models.BlogsCollection),
		closeFn: closeFn,
	}
}

// Collection returns the collection registered under name.
func (s *Store) Collection(name string) (Collection, error) {
	switch name {
	case models.PartsCollection:
		return s.Parts, nil
	case models.UsersCollection:
		return s.Users, nil
	case models.ReviewsCollection:
		return s.Reviews, nil
	case models.OrdersCollection:
		return s.Orders, nil
	case models.BlogsCollection:
		return s.Blogs, nil
	}
	return nil, fmt.Errorf("unknown collection %q", name)
}

// Close releases the underlying connection, if any.
func (s *Store) Close(ctx context.Context) error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}
