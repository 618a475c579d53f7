package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alliedparts/internal/logger"
	"alliedparts/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection is a MongoDB implementation of Collection.
type MongoCollection struct {
	coll    *mongo.Collection
	timeout time.Duration
}

// NewMongoCollection wraps an existing *mongo.Collection.
func NewMongoCollection(coll *mongo.Collection, timeout time.Duration) *MongoCollection {
	return &MongoCollection{
		coll:    coll,
		timeout: timeoutOrDefault(timeout),
	}
}

// NewMongoStore connects to MongoDB and returns a Store over database dbName.
// The client is shared by every collection.
func NewMongoStore(ctx context.Context, uri, dbName string, timeout time.Duration) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeoutOrDefault(timeout))
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	store := newStore(func(name string) Collection {
		return NewMongoCollection(db.Collection(name), timeout)
	}, client.Disconnect)

	if err := ensureMongoIndexes(ctx, db.Collection(models.ReviewsCollection).Indexes()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

// indexCreator is the part of mongo.IndexView used at startup.
type indexCreator interface {
	CreateOne(ctx context.Context, model mongo.IndexModel, opts ...*options.CreateIndexesOptions) (string, error)
}

// ensureMongoIndexes backs the one-review-per-user rule with a unique index.
// Existing duplicate reviews prevent the build; the store then starts without
// the index and InsertIfAbsent relies on its upsert filter alone.
func ensureMongoIndexes(ctx context.Context, reviews indexCreator) error {
	_, err := reviews.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "uid", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if mongo.IsDuplicateKeyError(err) {
		logger.Warningf("Reviews uid index not created, duplicate reviews exist: %v", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create reviews uid index: %w", err)
	}
	return nil
}

// Name returns the collection name.
func (r *MongoCollection) Name() string {
	return r.coll.Name()
}

// Find returns the matching documents.
func (r *MongoCollection) Find(ctx context.Context, filter Filter, opts FindOptions) ([]models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, err := mongoFilter(filter)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if opts.Newest {
		findOpts.SetSort(bson.D{{Key: "_id", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cur, err := r.coll.Find(ctx, query, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find in %s: %w", r.Name(), err)
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.Name(), err)
	}
	docs := make([]models.Document, 0, len(raw))
	for _, m := range raw {
		docs = append(docs, fromBSON(m))
	}
	return docs, nil
}

// FindOne returns the first matching document.
func (r *MongoCollection) FindOne(ctx context.Context, filter Filter) (models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, err := mongoFilter(filter)
	if err != nil {
		return nil, err
	}

	var m bson.M
	if err := r.coll.FindOne(ctx, query).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find one in %s: %w", r.Name(), err)
	}
	return fromBSON(m), nil
}

// InsertOne inserts doc; the store assigns the id.
func (r *MongoCollection) InsertOne(ctx context.Context, doc models.Document) (*InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, bson.M(doc.Without("_id")))
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %w", r.Name(), err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: hexID(res.InsertedID)}, nil
}

// UpdateOne applies $set to the first matching document.
func (r *MongoCollection) UpdateOne(ctx context.Context, filter Filter, set models.Document, upsert bool) (*UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, err := mongoFilter(filter)
	if err != nil {
		return nil, err
	}

	fields := bson.M(set.Without("_id"))
	if len(fields) == 0 {
		// $set must not be empty; re-assert the filter's own fields instead.
		for k, v := range seedFromFilter(filter) {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		n, err := r.coll.CountDocuments(ctx, query, options.Count().SetLimit(1))
		if err != nil {
			return nil, fmt.Errorf("failed to count in %s: %w", r.Name(), err)
		}
		return &UpdateResult{Acknowledged: true, MatchedCount: n}, nil
	}

	res, err := r.coll.UpdateOne(ctx, query, bson.M{"$set": fields}, options.Update().SetUpsert(upsert))
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %w", r.Name(), err)
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    hexID(res.UpsertedID),
	}, nil
}

// DeleteOne removes the first matching document.
func (r *MongoCollection) DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, err := mongoFilter(filter)
	if err != nil {
		return nil, err
	}
	res, err := r.coll.DeleteOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to delete from %s: %w", r.Name(), err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// InsertIfAbsent upserts with $setOnInsert so the existence check and the
// insert are one server-side operation.
func (r *MongoCollection) InsertIfAbsent(ctx context.Context, filter Filter, doc models.Document) (*InsertResult, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query, err := mongoFilter(filter)
	if err != nil {
		return nil, false, err
	}

	seed := seedFromFilter(filter)
	fields := bson.M{}
	for k, v := range doc.Without("_id") {
		if _, pinned := seed[k]; !pinned {
			fields[k] = v
		}
	}
	if len(fields) == 0 {
		fields = bson.M(seed)
	}

	res, err := r.coll.UpdateOne(ctx, query, bson.M{"$setOnInsert": fields}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to insert into %s: %w", r.Name(), err)
	}
	if res.UpsertedCount == 0 {
		return nil, false, nil
	}
	return &InsertResult{Acknowledged: true, InsertedID: hexID(res.UpsertedID)}, true, nil
}

func mongoFilter(filter Filter) (bson.M, error) {
	query := bson.M{}
	if filter.ID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidID, filter.ID)
		}
		query["_id"] = oid
	}
	if filter.UID != "" {
		query["uid"] = filter.UID
	}
	return query, nil
}

func fromBSON(m bson.M) models.Document {
	doc := models.Document(m)
	if id, ok := doc["_id"]; ok {
		doc["_id"] = hexID(id)
	}
	return doc
}

func hexID(id interface{}) interface{} {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return id
}
