package repositories

import (
	"context"
	"sync"

	"alliedparts/internal/models"
)

// MemoryCollection is an in-memory implementation of Collection.
type MemoryCollection struct {
	name  string
	docs  map[string]models.Document
	order []string // ids in insertion order
	mu    sync.RWMutex
}

// NewMemoryCollection creates an empty MemoryCollection.
func NewMemoryCollection(name string) *MemoryCollection {
	return &MemoryCollection{
		name: name,
		docs: make(map[string]models.Document),
	}
}

// NewMemoryStore creates a Store backed entirely by memory.
func NewMemoryStore() *Store {
	return newStore(func(name string) Collection {
		return NewMemoryCollection(name)
	}, nil)
}

// Name returns the collection name.
func (r *MemoryCollection) Name() string {
	return r.name
}

// Find returns the matching documents.
func (r *MemoryCollection) Find(_ context.Context, filter Filter, opts FindOptions) ([]models.Document, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Document, 0)
	for i := range r.order {
		idx := i
		if opts.Newest {
			idx = len(r.order) - 1 - i
		}
		doc := r.docs[r.order[idx]]
		if !matches(doc, filter) {
			continue
		}
		result = append(result, copyDoc(doc))
		if opts.Limit > 0 && int64(len(result)) >= opts.Limit {
			break
		}
	}
	return result, nil
}

// FindOne returns the first matching document.
func (r *MemoryCollection) FindOne(_ context.Context, filter Filter) (models.Document, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, doc, ok := r.findLocked(filter); ok {
		return copyDoc(doc), nil
	}
	return nil, ErrNotFound
}

// InsertOne adds a new document under a fresh id.
func (r *MemoryCollection) InsertOne(_ context.Context, doc models.Document) (*InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(doc), nil
}

// UpdateOne sets fields on the first matching document.
func (r *MemoryCollection) UpdateOne(_ context.Context, filter Filter, set models.Document, upsert bool) (*UpdateResult, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id, doc, ok := r.findLocked(filter)
	if !ok {
		if !upsert {
			return &UpdateResult{Acknowledged: true}, nil
		}
		created := seedFromFilter(filter)
		for k, v := range set.Without("_id") {
			created[k] = v
		}
		inserted := r.insertLocked(created)
		return &UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: inserted.InsertedID}, nil
	}

	updated, changed := applySet(doc, set)
	res := &UpdateResult{Acknowledged: true, MatchedCount: 1}
	if changed {
		r.docs[id] = updated
		res.ModifiedCount = 1
	}
	return res, nil
}

// DeleteOne removes the first matching document.
func (r *MemoryCollection) DeleteOne(_ context.Context, filter Filter) (*DeleteResult, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id, _, ok := r.findLocked(filter)
	if !ok {
		return &DeleteResult{Acknowledged: true}, nil
	}
	delete(r.docs, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// InsertIfAbsent inserts doc unless filter already matches. The check and the
// insert happen under one lock.
func (r *MemoryCollection) InsertIfAbsent(_ context.Context, filter Filter, doc models.Document) (*InsertResult, bool, error) {
	if err := checkID(filter); err != nil {
		return nil, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, _, ok := r.findLocked(filter); ok {
		return nil, false, nil
	}
	created := seedFromFilter(filter)
	for k, v := range doc {
		if _, pinned := created[k]; !pinned {
			created[k] = v
		}
	}
	return r.insertLocked(created), true, nil
}

func (r *MemoryCollection) findLocked(filter Filter) (string, models.Document, bool) {
	for _, id := range r.order {
		if doc := r.docs[id]; matches(doc, filter) {
			return id, doc, true
		}
	}
	return "", nil, false
}

func (r *MemoryCollection) insertLocked(doc models.Document) *InsertResult {
	stored := copyDoc(doc)
	if stored == nil {
		stored = models.Document{}
	}
	id := newID()
	stored["_id"] = id
	r.order = append(r.order, id)
	r.docs[id] = stored
	return &InsertResult{Acknowledged: true, InsertedID: id}
}
