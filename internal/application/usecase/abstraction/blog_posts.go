package abstraction

import (
	"context"
	"io"
	"iter"

	"blogd/internal/domain/dto"
	"blogd/internal/domain/model"
)

// BlogPosts manages the blog post collection.
type BlogPosts interface {
	List(ctx context.Context, title string) ([]model.BlogPost, error)
	Get(ctx context.Context, id string) (model.BlogPost, error)
	// Create stores the post and then notifies its author. A failed
	// notification is reported in the receipt and never undoes the insert.
	Create(ctx context.Context, in dto.BlogPostInput) (model.BlogPost, model.DeliveryReceipt, error)
	Update(ctx context.Context, id string, patch dto.BlogPostPatch) (model.BlogPost, error)
	Delete(ctx context.Context, id string) error
	AttachCover(ctx context.Context, id string, body io.Reader, size int64) (model.BlogPost, error)
	ExportRows(ctx context.Context) iter.Seq2[[]string, error]
}
