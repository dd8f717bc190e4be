package usecase

import (
	"context"
	"io"

	"github.com/Laisky/errors/v2"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/repository/imagehost"
	"blogd/pkg/logger"
)

const (
	avatarFolder = "avatars"
	coverFolder  = "covers"
)

// images uploads owner images and discards the ones that are no longer
// referenced.
type images struct {
	uploader imagehost.Uploader
	remover  imagehost.Remover
}

// upload stores body and returns its public location. field names the form
// field in validation failures.
func (i images) upload(ctx context.Context, body io.Reader, size int64, folder, field string) (string, error) {
	res, err := i.uploader.Upload(ctx, body, size, folder)
	switch {
	case errors.Is(err, imagehost.ErrUnsupportedType):
		return "", apperr.Validation(apperr.Check{Field: field, Message: field + " must be an image"})
	case errors.Is(err, imagehost.ErrEmptyFile):
		return "", apperr.Validation(apperr.Check{Field: field, Message: field + " is empty"})
	case err != nil:
		if apperr.Is(err, apperr.KindUnknown) {
			err = apperr.Upload(err, "upload %s", field)
		}

		return "", err
	}

	logger.Debug("image uploaded", "location", res.Location, "type", res.Type, "size", res.Size)

	return res.Location, nil
}

// discard removes location from the image host. Failures are only logged.
func (i images) discard(ctx context.Context, location string) {
	if location == "" || i.remover == nil {
		return
	}

	if err := i.remover.Remove(ctx, location); err != nil {
		logger.Warn("failed to remove image", "location", location, "err", err)
	}
}

// settle finishes an image swap once the owner update returned. The new image
// is discarded if the update failed, the previous one once it is no longer
// referenced.
func (i images) settle(ctx context.Context, location, previous string, err error) {
	if err != nil {
		i.discard(ctx, location)

		return
	}

	if previous != location {
		i.discard(ctx, previous)
	}
}
