package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"alliedparts/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// documentRecord stores one document of any collection as a JSON body.
type documentRecord struct {
	Seq        uint64  `gorm:"primaryKey;autoIncrement"`
	Collection string  `gorm:"type:varchar(32);not null;uniqueIndex:idx_documents_collection_doc"`
	DocID      string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_documents_collection_doc"`
	UID        string  `gorm:"type:varchar(128);index"`
	UniqueKey  *string `gorm:"type:varchar(200);uniqueIndex"` // set only by InsertIfAbsent
	Body       string  `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRecord) TableName() string {
	return "documents"
}

// GORMCollection is a GORM implementation of Collection.
type GORMCollection struct {
	db      *gorm.DB
	name    string
	timeout time.Duration
}

// NewGORMCollection creates a GORMCollection for name.
func NewGORMCollection(db *gorm.DB, name string, timeout time.Duration) *GORMCollection {
	return &GORMCollection{
		db:      db,
		name:    name,
		timeout: timeoutOrDefault(timeout),
	}
}

// OpenGORM opens a postgres or sqlite database.
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// NewGORMStore migrates the documents table and returns a Store over db.
func NewGORMStore(db *gorm.DB, timeout time.Duration) (*Store, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate documents: %w", err)
	}
	closeFn := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return newStore(func(name string) Collection {
		return NewGORMCollection(db, name, timeout)
	}, closeFn), nil
}

// Name returns the collection name.
func (r *GORMCollection) Name() string {
	return r.name
}

// Find returns the matching documents.
func (r *GORMCollection) Find(ctx context.Context, filter Filter, opts FindOptions) ([]models.Document, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	order := "seq ASC"
	if opts.Newest {
		order = "seq DESC"
	}
	q := r.scope(r.db.WithContext(ctx), filter).Order(order)
	if opts.Limit > 0 {
		q = q.Limit(int(opts.Limit))
	}

	var records []documentRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find in %s: %w", r.name, err)
	}
	docs := make([]models.Document, 0, len(records))
	for i := range records {
		doc, err := decodeRecord(&records[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// FindOne returns the first matching document.
func (r *GORMCollection) FindOne(ctx context.Context, filter Filter) (models.Document, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec, err := r.first(r.db.WithContext(ctx), filter)
	if err != nil {
		return nil, err
	}
	return decodeRecord(rec)
}

// InsertOne inserts doc under a fresh id.
func (r *GORMCollection) InsertOne(ctx context.Context, doc models.Document) (*InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rec, err := r.newRecord(doc)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", r.name, err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: rec.DocID}, nil
}

// UpdateOne sets fields on the first matching document inside a transaction.
func (r *GORMCollection) UpdateOne(ctx context.Context, filter Filter, set models.Document, upsert bool) (*UpdateResult, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := &UpdateResult{Acknowledged: true}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.first(tx, filter)
		if errors.Is(err, ErrNotFound) {
			if !upsert {
				return nil
			}
			created := seedFromFilter(filter)
			for k, v := range set.Without("_id") {
				created[k] = v
			}
			newRec, err := r.newRecord(created)
			if err != nil {
				return err
			}
			if err := tx.Create(newRec).Error; err != nil {
				return fmt.Errorf("failed to upsert into %s: %w", r.name, err)
			}
			res.UpsertedCount = 1
			res.UpsertedID = newRec.DocID
			return nil
		}
		if err != nil {
			return err
		}

		res.MatchedCount = 1
		doc, err := decodeRecord(rec)
		if err != nil {
			return err
		}
		updated, changed := applySet(doc, set)
		if !changed {
			return nil
		}
		body, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to encode %s document: %w", r.name, err)
		}
		if err := tx.Model(rec).Updates(map[string]interface{}{
			"body": string(body),
			"uid":  updated.UID(),
		}).Error; err != nil {
			return fmt.Errorf("failed to update %s: %w", r.name, err)
		}
		res.ModifiedCount = 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// DeleteOne removes the first matching document.
func (r *GORMCollection) DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error) {
	if err := checkID(filter); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res := &DeleteResult{Acknowledged: true}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.first(tx, filter)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		del := tx.Delete(&documentRecord{}, rec.Seq)
		if del.Error != nil {
			return fmt.Errorf("failed to delete from %s: %w", r.name, del.Error)
		}
		res.DeletedCount = del.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// InsertIfAbsent checks and inserts in one transaction. A unique key derived
// from the filter rejects a concurrent duplicate that slips past the check.
func (r *GORMCollection) InsertIfAbsent(ctx context.Context, filter Filter, doc models.Document) (*InsertResult, bool, error) {
	if err := checkID(filter); err != nil {
		return nil, false, err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	created := seedFromFilter(filter)
	for k, v := range doc {
		if _, pinned := created[k]; !pinned {
			created[k] = v
		}
	}
	rec, err := r.newRecord(created)
	if err != nil {
		return nil, false, err
	}
	key := fmt.Sprintf("%s:id=%s:uid=%s", r.name, filter.ID, filter.UID)
	rec.UniqueKey = &key

	inserted := false
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := r.first(tx, filter)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		if err := tx.Create(rec).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return fmt.Errorf("failed to insert into %s: %w", r.name, err)
		}
		inserted = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		return nil, false, nil
	}
	return &InsertResult{Acknowledged: true, InsertedID: rec.DocID}, true, nil
}

func (r *GORMCollection) scope(db *gorm.DB, filter Filter) *gorm.DB {
	q := db.Model(&documentRecord{}).Where("collection = ?", r.name)
	if filter.ID != "" {
		q = q.Where("doc_id = ?", filter.ID)
	}
	if filter.UID != "" {
		q = q.Where("uid = ?", filter.UID)
	}
	return q
}

func (r *GORMCollection) first(db *gorm.DB, filter Filter) (*documentRecord, error) {
	var rec documentRecord
	if err := r.scope(db, filter).Order("seq ASC").First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find one in %s: %w", r.name, err)
	}
	return &rec, nil
}

func (r *GORMCollection) newRecord(doc models.Document) (*documentRecord, error) {
	stored := copyDoc(doc)
	if stored == nil {
		stored = models.Document{}
	}
	id := newID()
	stored["_id"] = id

	body, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s document: %w", r.name, err)
	}
	return &documentRecord{
		Collection: r.name,
		DocID:      id,
		UID:        stored.UID(),
		Body:       string(body),
	}, nil
}

func decodeRecord(rec *documentRecord) (models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal([]byte(rec.Body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", rec.DocID, err)
	}
	return doc, nil
}
