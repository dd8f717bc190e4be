package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/entity"
	"blogd/internal/domain/repository/imagehost"
	"blogd/pkg/logger"
	"blogd/pkg/utils"
)

// sniffLen is how much of the body is read up front for content detection.
const sniffLen = 3072

type Uploader struct {
	client *Client
	cfg    *UploaderConfig
}

func NewUploader(client *Client, config *UploaderConfig) *Uploader {
	return &Uploader{
		client: client,
		cfg:    config,
	}
}

// Upload stores body under folder with a random name. size may be -1 when
// unknown. The content type is detected from the bytes, never trusted from the
// client.
func (u *Uploader) Upload(ctx context.Context, body io.Reader, size int64, folder string,
) (entity.ImageUploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(u.cfg.Timeout)*time.Millisecond)
	defer cancel()

	head, err := readHead(body)
	if err != nil {
		return entity.ImageUploadResult{}, err
	}

	detected := mimetype.Detect(head).String()
	if !utils.IsSupportedImage(detected) {
		return entity.ImageUploadResult{}, errors.Wrapf(imagehost.ErrUnsupportedType, "detected %s", detected)
	}

	object := path.Join(folder, uuid.New().String()+utils.GetExtensionFromMimeType(detected))

	info, err := u.client.MinioClient.PutObject(ctx, u.client.Bucket, object,
		io.MultiReader(bytes.NewReader(head), body), size,
		minio.PutObjectOptions{
			ContentType: detected,
		})
	if err != nil {
		logger.Error("failed to upload object", "object", object, "err", err)

		return entity.ImageUploadResult{}, apperr.Upload(err, "upload %s", object)
	}

	return entity.ImageUploadResult{
		Size:     info.Size,
		Type:     detected,
		Location: u.client.ObjectURL(object),
		Bucket:   u.client.Bucket,
		Object:   object,
	}, nil
}

func readHead(body io.Reader) ([]byte, error) {
	head := make([]byte, sniffLen)

	n, err := io.ReadFull(body, head)
	switch {
	case errors.Is(err, io.EOF):
		return nil, imagehost.ErrEmptyFile
	case err != nil && !errors.Is(err, io.ErrUnexpectedEOF):
		logger.Error("read error", "err", err.Error())

		return nil, apperr.Upload(err, "read upload")
	}

	return head[:n], nil
}
