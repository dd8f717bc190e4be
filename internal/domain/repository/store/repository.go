package store

import (
	"context"
	"iter"

	"blogd/internal/domain/model"
)

// Repository persists one collection. Lookups of unknown ids fail with an
// apperr.KindNotFound error; persistence failures with apperr.KindStorage.
type Repository[T model.Record] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, rec T) error
	Update(ctx context.Context, id string, merge func(T) (T, error)) (T, error)
	Delete(ctx context.Context, id string) (T, error)
	Stream(ctx context.Context) iter.Seq2[T, error]
}
