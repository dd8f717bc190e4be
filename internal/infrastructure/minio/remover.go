package minio

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"

	"blogd/internal/domain/apperr"
	"blogd/pkg/logger"
)

type Remover struct {
	client *Client
	cfg    *RemoverConfig
}

func NewRemover(client *Client, cfg *RemoverConfig) *Remover {
	return &Remover{
		client: client,
		cfg:    cfg,
	}
}

func (r *Remover) Remove(ctx context.Context, location string) error {
	object, ok := r.client.ObjectFromURL(location)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Timeout)*time.Millisecond)
	defer cancel()

	err := r.client.MinioClient.RemoveObject(ctx, r.client.Bucket, object, minio.RemoveObjectOptions{})
	if err != nil {
		logger.Error("failed to remove object", "object", object, "err", err)

		return apperr.Upload(err, "remove %s", object)
	}

	return nil
}
