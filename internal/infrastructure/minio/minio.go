package minio

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"blogd/pkg/logger"
)

// publicReadPolicy lets anonymous clients fetch objects, which is what makes
// the returned locations usable as avatar and cover URLs.
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

type Client struct {
	MinioClient *minio.Client
	Bucket      string
	publicURL   string
}

func New(cfg *ClientConfig) (*Client, error) {
	logger.Info("connecting to minio", "endpoint", cfg.Endpoint, "bucket", cfg.Bucket)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		logger.Error("failed to initialize MinIO client", "err", err)

		return nil, err
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &Client{
		MinioClient: client,
		Bucket:      cfg.Bucket,
		publicURL:   strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket with a public-read policy if it is missing.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.MinioClient.BucketExists(ctx, c.Bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := c.MinioClient.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{}); err != nil {
		return err
	}

	return c.MinioClient.SetBucketPolicy(ctx, c.Bucket, fmt.Sprintf(publicReadPolicy, c.Bucket))
}

func (c *Client) ObjectURL(object string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicURL, c.Bucket, object)
}

// ObjectFromURL returns the object name behind a location produced by ObjectURL.
func (c *Client) ObjectFromURL(location string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", c.publicURL, c.Bucket)
	if !strings.HasPrefix(location, prefix) {
		return "", false
	}

	object := strings.TrimPrefix(location, prefix)

	return object, object != ""
}
