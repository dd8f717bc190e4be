package imagehost

import (
	"context"
	"io"

	"blogd/internal/domain/entity"
)

type Uploader interface {
	Upload(ctx context.Context, body io.Reader, size int64, folder string) (entity.ImageUploadResult, error)
}
