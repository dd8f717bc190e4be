package abstraction

import (
	"context"
	"io"
	"iter"

	"blogd/internal/domain/dto"
	"blogd/internal/domain/model"
)

// Authors manages the author collection.
type Authors interface {
	List(ctx context.Context, name string) ([]model.Author, error)
	Get(ctx context.Context, id string) (model.Author, error)
	Create(ctx context.Context, in dto.AuthorInput) (model.Author, error)
	Update(ctx context.Context, id string, patch dto.AuthorPatch) (model.Author, error)
	Delete(ctx context.Context, id string) error
	AttachAvatar(ctx context.Context, id string, body io.Reader, size int64) (model.Author, error)
	ExportRows(ctx context.Context) iter.Seq2[[]string, error]
}
