package services_test

import (
	"context"

	"alliedparts/internal/models"
	"alliedparts/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockCollection is a mock implementation of repositories.Collection
type MockCollection struct {
	mock.Mock
	name string
}

func newMockCollection(name string) *MockCollection {
	return &MockCollection{name: name}
}

func (m *MockCollection) Name() string {
	return m.name
}

func (m *MockCollection) Find(ctx context.Context, filter repositories.Filter, opts repositories.FindOptions) ([]models.Document, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockCollection) FindOne(ctx context.Context, filter repositories.Filter) (models.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Document), args.Error(1)
}

func (m *MockCollection) InsertOne(ctx context.Context, doc models.Document) (*repositories.InsertResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.InsertResult), args.Error(1)
}

func (m *MockCollection) UpdateOne(ctx context.Context, filter repositories.Filter, set models.Document, upsert bool) (*repositories.UpdateResult, error) {
	args := m.Called(ctx, filter, set, upsert)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.UpdateResult), args.Error(1)
}

func (m *MockCollection) DeleteOne(ctx context.Context, filter repositories.Filter) (*repositories.DeleteResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.DeleteResult), args.Error(1)
}

func (m *MockCollection) InsertIfAbsent(ctx context.Context, filter repositories.Filter, doc models.Document) (*repositories.InsertResult, bool, error) {
	args := m.Called(ctx, filter, doc)
	var res *repositories.InsertResult
	if args.Get(0) != nil {
		res = args.Get(0).(*repositories.InsertResult)
	}
	return res, args.Bool(1), args.Error(2)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, body []byte) error {
	args := m.Called(routingKey, body)
	return args.Error(0)
}

// MockCache is a mock implementation of services.ListingCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}
