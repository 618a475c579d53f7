package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"alliedparts/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCollectionContract exercises the behaviour every Collection backend must share.
func runCollectionContract(t *testing.T, newCollection func(t *testing.T, name string) Collection) {
	ctx := context.Background()

	t.Run("InsertAndFindOne", func(t *testing.T) {
		coll := newCollection(t, models.PartsCollection)

		res, err := coll.InsertOne(ctx, models.Document{"name": "Alternator", "price": 120.0})
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		id, ok := res.InsertedID.(string)
		require.True(t, ok)
		require.NotEmpty(t, id)

		doc, err := coll.FindOne(ctx, Filter{ID: id})
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID())
		assert.Equal(t, "Alternator", doc["name"])

		_, err = coll.FindOne(ctx, Filter{UID: "nobody"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InvalidID", func(t *testing.T) {
		coll := newCollection(t, models.PartsCollection)

		_, err := coll.FindOne(ctx, Filter{ID: "not-an-id"})
		assert.ErrorIs(t, err, ErrInvalidID)
		_, err = coll.UpdateOne(ctx, Filter{ID: "not-an-id"}, models.Document{"a": 1}, false)
		assert.ErrorIs(t, err, ErrInvalidID)
		_, err = coll.DeleteOne(ctx, Filter{ID: "not-an-id"})
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("InsertAssignsID", func(t *testing.T) {
		coll := newCollection(t, models.PartsCollection)

		res, err := coll.InsertOne(ctx, models.Document{"_id": "chosen", "name": "Fan belt"})
		require.NoError(t, err)
		assert.NotEqual(t, "chosen", res.InsertedID)

		doc, err := coll.FindOne(ctx, Filter{ID: res.InsertedID.(string)})
		require.NoError(t, err)
		assert.Equal(t, "Fan belt", doc["name"])
	})

	t.Run("FindNewestFirstWithLimit", func(t *testing.T) {
		coll := newCollection(t, models.PartsCollection)
		for i := 1; i <= 5; i++ {
			_, err := coll.InsertOne(ctx, models.Document{"name": fmt.Sprintf("part-%d", i)})
			require.NoError(t, err)
		}

		all, err := coll.Find(ctx, Filter{}, FindOptions{Newest: true})
		require.NoError(t, err)
		require.Len(t, all, 5)
		assert.Equal(t, "part-5", all[0]["name"])
		assert.Equal(t, "part-1", all[4]["name"])

		top, err := coll.Find(ctx, Filter{}, FindOptions{Newest: true, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, all[:3], top)

		oldest, err := coll.Find(ctx, Filter{}, FindOptions{})
		require.NoError(t, err)
		assert.Equal(t, "part-1", oldest[0]["name"])

		few, err := coll.Find(ctx, Filter{}, FindOptions{Newest: true, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, few, 5)
	})

	t.Run("FindByUID", func(t *testing.T) {
		coll := newCollection(t, models.OrdersCollection)
		for _, uid := range []string{"u1", "u2", "u1"} {
			_, err := coll.InsertOne(ctx, models.Document{"uid": uid})
			require.NoError(t, err)
		}

		orders, err := coll.Find(ctx, Filter{UID: "u1"}, FindOptions{Newest: true})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
		for _, o := range orders {
			assert.Equal(t, "u1", o.UID())
		}

		none, err := coll.Find(ctx, Filter{UID: "u3"}, FindOptions{})
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("UpdateOne", func(t *testing.T) {
		coll := newCollection(t, models.UsersCollection)

		res, err := coll.UpdateOne(ctx, Filter{UID: "u1"}, models.Document{"role": "user"}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.MatchedCount)
		assert.Equal(t, int64(0), res.UpsertedCount)

		res, err = coll.UpdateOne(ctx, Filter{UID: "u1"}, models.Document{"role": "user", "name": "Ann"}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.UpsertedCount)
		assert.NotNil(t, res.UpsertedID)

		user, err := coll.FindOne(ctx, Filter{UID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "u1", user.UID())
		assert.Equal(t, "Ann", user["name"])

		res, err = coll.UpdateOne(ctx, Filter{UID: "u1"}, models.Document{"name": "Ann"}, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(0), res.ModifiedCount)

		res, err = coll.UpdateOne(ctx, Filter{UID: "u1"}, models.Document{"_id": "ignored", "name": "Bea"}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.MatchedCount)
		assert.Equal(t, int64(1), res.ModifiedCount)

		user, err = coll.FindOne(ctx, Filter{UID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, "Bea", user["name"])
		assert.NotEqual(t, "ignored", user.ID())
	})

	t.Run("DeleteOne", func(t *testing.T) {
		coll := newCollection(t, models.OrdersCollection)
		ins, err := coll.InsertOne(ctx, models.Document{"uid": "u1"})
		require.NoError(t, err)
		id := ins.InsertedID.(string)

		res, err := coll.DeleteOne(ctx, Filter{ID: id})
		require.NoError(t, err)
		assert.Equal(t, int64(1), res.DeletedCount)

		res, err = coll.DeleteOne(ctx, Filter{ID: id})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.DeletedCount)

		_, err = coll.FindOne(ctx, Filter{ID: id})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InsertIfAbsent", func(t *testing.T) {
		coll := newCollection(t, models.ReviewsCollection)

		res, inserted, err := coll.InsertIfAbsent(ctx, Filter{UID: "u1"}, models.Document{"text": "great", "uid": "someone-else"})
		require.NoError(t, err)
		assert.True(t, inserted)
		require.NotNil(t, res)

		res, inserted, err = coll.InsertIfAbsent(ctx, Filter{UID: "u1"}, models.Document{"text": "again"})
		require.NoError(t, err)
		assert.False(t, inserted)
		assert.Nil(t, res)

		reviews, err := coll.Find(ctx, Filter{UID: "u1"}, FindOptions{})
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, "great", reviews[0]["text"])
		assert.Equal(t, "u1", reviews[0].UID())
	})

	t.Run("InsertIfAbsentConcurrent", func(t *testing.T) {
		coll := newCollection(t, models.ReviewsCollection)

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			inserted int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, ok, err := coll.InsertIfAbsent(ctx, Filter{UID: "racer"}, models.Document{"n": i})
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					inserted++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, inserted)
		reviews, err := coll.Find(ctx, Filter{UID: "racer"}, FindOptions{})
		require.NoError(t, err)
		assert.Len(t, reviews, 1)
	})
}
