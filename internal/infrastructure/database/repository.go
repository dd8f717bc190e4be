package database

import (
	"context"
	"iter"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/model"
	"blogd/pkg/logger"
)

const versionField = "_version"

var errVersionConflict = errors.New("document changed concurrently")

// envelope stores a record with the version used for compare-and-swap updates.
// The version never leaves this package.
type envelope[T any] struct {
	Doc     T     `bson:",inline"`
	Version int64 `bson:"_version"`
}

// Repository keeps one collection in mongo. Updates replace the document only
// if its version is unchanged since it was read, retrying a bounded number of
// times.
type Repository[T model.Record] struct {
	db         *Database
	collection string
}

func NewRepository[T model.Record](db *Database, collection string) *Repository[T] {
	return &Repository[T]{
		db:         db,
		collection: collection,
	}
}

func (r *Repository[T]) coll() *mongo.Collection {
	return r.db.Client.Database(r.db.DBName).Collection(r.collection)
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	cursor, err := r.coll().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, r.storageErr(err, "list")
	}
	defer cursor.Close(ctx)

	var envs []envelope[T]
	if err := cursor.All(ctx, &envs); err != nil {
		return nil, r.storageErr(err, "decode")
	}

	items := make([]T, 0, len(envs))
	for i := range envs {
		items = append(items, envs[i].Doc)
	}

	return items, nil
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	env, err := r.find(ctx, id)
	if err != nil {
		var zero T

		return zero, err
	}

	return env.Doc, nil
}

func (r *Repository[T]) Insert(ctx context.Context, rec T) error {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	_, err := r.coll().InsertOne(ctx, envelope[T]{Doc: rec, Version: 1})
	if err != nil {
		return r.storageErr(err, "insert")
	}

	return nil
}

func (r *Repository[T]) Update(ctx context.Context, id string, merge func(T) (T, error)) (T, error) {
	var zero T

	for attempt := 1; attempt <= r.db.MaxUpdateAttempts; attempt++ {
		env, err := r.find(ctx, id)
		if err != nil {
			return zero, err
		}

		updated, err := merge(env.Doc)
		if err != nil {
			return zero, err
		}

		if updated.RecordID() != id {
			return zero, errors.Errorf("merge changed record id from %s to %s", id, updated.RecordID())
		}

		err = r.replace(ctx, id, env.Version, updated)
		if err == nil {
			return updated, nil
		}

		if !errors.Is(err, errVersionConflict) {
			return zero, r.storageErr(err, "replace")
		}

		logger.Debug("retrying update after version conflict", "collection", r.collection,
			"id", id, "attempt", attempt)
	}

	return zero, r.storageErr(errVersionConflict, "replace")
}

func (r *Repository[T]) Delete(ctx context.Context, id string) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	var env envelope[T]
	err := r.coll().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&env)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, apperr.NotFound("%s record %s not found", r.collection, id)
		}

		return zero, r.storageErr(err, "delete")
	}

	return env.Doc, nil
}

// Stream walks the collection with a cursor. The query timeout does not
// apply, the caller's context bounds the walk.
func (r *Repository[T]) Stream(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		cursor, err := r.coll().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
		if err != nil {
			yield(zero, r.storageErr(err, "stream"))

			return
		}
		defer cursor.Close(context.WithoutCancel(ctx))

		for cursor.Next(ctx) {
			var env envelope[T]
			if err := cursor.Decode(&env); err != nil {
				yield(zero, r.storageErr(err, "decode"))

				return
			}

			if !yield(env.Doc, nil) {
				return
			}
		}

		if err := cursor.Err(); err != nil {
			yield(zero, r.storageErr(err, "stream"))
		}
	}
}

func (r *Repository[T]) find(ctx context.Context, id string) (*envelope[T], error) {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	var env envelope[T]
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&env)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("%s record %s not found", r.collection, id)
		}

		return nil, r.storageErr(err, "find")
	}

	return &env, nil
}

func (r *Repository[T]) replace(ctx context.Context, id string, version int64, rec T) error {
	ctx, cancel := context.WithTimeout(ctx, r.db.QueryTimeout)
	defer cancel()

	res, err := r.coll().ReplaceOne(ctx,
		bson.M{"_id": id, versionField: version},
		envelope[T]{Doc: rec, Version: version + 1},
	)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return errVersionConflict
	}

	return nil
}

func (r *Repository[T]) storageErr(err error, op string) error {
	logger.Error("mongo operation failed", "collection", r.collection, "op", op, "err", err.Error())

	return apperr.Storage(err, "%s %s", op, r.collection)
}
