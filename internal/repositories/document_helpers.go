package repositories

import (
	"fmt"
	"reflect"

	"alliedparts/internal/models"

	"github.com/google/uuid"
)

// checkID rejects filter ids that could not have been assigned by newID.
func checkID(filter Filter) error {
	if filter.ID == "" {
		return nil
	}
	if _, err := uuid.Parse(filter.ID); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, filter.ID)
	}
	return nil
}

func newID() string {
	return uuid.New().String()
}

func matches(doc models.Document, filter Filter) bool {
	if filter.ID != "" && doc.ID() != filter.ID {
		return false
	}
	if filter.UID != "" && doc.UID() != filter.UID {
		return false
	}
	return true
}

// seedFromFilter returns the fields an upsert copies from its filter.
func seedFromFilter(filter Filter) models.Document {
	doc := models.Document{}
	if filter.UID != "" {
		doc["uid"] = filter.UID
	}
	return doc
}

// applySet returns doc with set applied and whether anything changed.
// The "_id" field is never overwritten.
func applySet(doc, set models.Document) (models.Document, bool) {
	updated := copyDoc(doc)
	changed := false
	for k, v := range set {
		if k == "_id" {
			continue
		}
		if old, ok := updated[k]; ok && reflect.DeepEqual(old, v) {
			continue
		}
		updated[k] = v
		changed = true
	}
	return updated, changed
}

func copyDoc(doc models.Document) models.Document {
	if doc == nil {
		return nil
	}
	out := make(models.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
