package repositories

import (
	"context"
	"errors"
	"time"

	"alliedparts/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when an identifier cannot be used by the backend.
	ErrInvalidID = errors.New("invalid document id")
)

// Filter selects documents by equality. Zero-valued fields are ignored,
// so Filter{} matches every document in the collection.
type Filter struct {
	ID  string
	UID string
}

// FindOptions controls ordering and size of Find results.
type FindOptions struct {
	// Newest sorts by insertion order, most recent first.
	Newest bool
	// Limit caps the result size when positive.
	Limit int64
}

// InsertResult mirrors the document store's insertOne outcome.
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateResult mirrors the document store's updateOne outcome.
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult mirrors the document store's deleteOne outcome.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is a named set of schema-less documents.
type Collection interface {
	Name() string
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]models.Document, error)
	// FindOne returns ErrNotFound when nothing matches.
	FindOne(ctx context.Context, filter Filter) (models.Document, error)
	InsertOne(ctx context.Context, doc models.Document) (*InsertResult, error)
	// UpdateOne sets the given fields on the first matching document. With upsert,
	// a missing document is created from the filter's fields plus set.
	UpdateOne(ctx context.Context, filter Filter, set models.Document, upsert bool) (*UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error)
	// InsertIfAbsent atomically inserts doc unless a document matching filter
	// exists. The returned bool reports whether the insert happened.
	InsertIfAbsent(ctx context.Context, filter Filter, doc models.Document) (*InsertResult, bool, error)
}

// DefaultTimeout bounds a single store operation when no timeout is configured.
const DefaultTimeout = 5 * time.Second

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}
