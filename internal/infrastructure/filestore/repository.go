package filestore

import (
	"context"
	"iter"
	"sync"

	"github.com/Laisky/errors/v2"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/collection"
	"blogd/internal/domain/model"
	"blogd/pkg/logger"
)

// Repository runs every write as load -> mutate -> save while holding the
// collection's write lock, so concurrent writers in this process cannot
// overwrite each other's changes. Reads are lock free.
type Repository[T model.Record] struct {
	accessor   *Accessor[T]
	writeLock  *sync.Mutex
	collection string
}

func NewRepository[T model.Record](s *Store, name string) *Repository[T] {
	return &Repository[T]{
		accessor:   NewAccessor[T](s.fs, s.path(name), name),
		writeLock:  s.lockFor(name),
		collection: name,
	}
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	return r.accessor.Load(ctx)
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	items, err := r.accessor.Load(ctx)
	if err != nil {
		return zero, err
	}

	rec, i := collection.Find(items, id)
	if i < 0 {
		return zero, r.notFound(id)
	}

	return rec, nil
}

func (r *Repository[T]) Insert(ctx context.Context, rec T) error {
	return r.mutate(ctx, func(items []T) ([]T, error) {
		return collection.Append(items, rec)
	})
}

func (r *Repository[T]) Update(ctx context.Context, id string, merge func(T) (T, error)) (T, error) {
	var updated T

	err := r.mutate(ctx, func(items []T) ([]T, error) {
		out, rec, err := collection.Replace(items, id, merge)
		if err != nil {
			return nil, err
		}
		updated = rec

		return out, nil
	})

	return updated, err
}

func (r *Repository[T]) Delete(ctx context.Context, id string) (T, error) {
	var removed T

	err := r.mutate(ctx, func(items []T) ([]T, error) {
		out, rec, err := collection.Remove(items, id)
		if err != nil {
			return nil, err
		}
		removed = rec

		return out, nil
	})

	return removed, err
}

func (r *Repository[T]) Stream(ctx context.Context) iter.Seq2[T, error] {
	return r.accessor.Stream(ctx)
}

func (r *Repository[T]) mutate(ctx context.Context, change func([]T) ([]T, error)) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	items, err := r.accessor.Load(ctx)
	if err != nil {
		logger.Error("failed to load collection", "collection", r.collection, "err", err.Error())

		return err
	}

	items, err = change(items)
	if err != nil {
		return r.translate(err)
	}

	if err := r.accessor.Save(ctx, items); err != nil {
		logger.Error("failed to save collection", "collection", r.collection, "err", err.Error())

		return err
	}

	return nil
}

func (r *Repository[T]) translate(err error) error {
	switch {
	case errors.Is(err, collection.ErrNotFound):
		return apperr.NotFound("%s: %s", r.collection, err.Error())
	case errors.Is(err, collection.ErrDuplicateID):
		return apperr.Storage(err, "insert into %s", r.collection)
	default:
		return err
	}
}

func (r *Repository[T]) notFound(id string) error {
	return apperr.NotFound("%s record %s not found", r.collection, id)
}
