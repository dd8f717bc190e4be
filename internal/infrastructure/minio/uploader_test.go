package minio

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/repository/imagehost"
)

const (
	TestAccessKey = "minioadmin"
	TestSecretKey = "minioadmin"
	BucketName    = "temp-bucket-for-tests"
)

func setupMinio(t *testing.T) *Client {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     TestAccessKey,
			"MINIO_ROOT_PASSWORD": TestSecretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatal("Failed to start container:", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatal(err)
	}

	client, err := New(&ClientConfig{
		AccessKey: TestAccessKey,
		SecretKey: TestSecretKey,
		Endpoint:  endpoint,
		Bucket:    BucketName,
	})
	require.NoError(t, err)
	require.NoError(t, client.EnsureBucket(ctx))

	return client
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

type corruptReader struct {
	source []byte
	failAt int
	read   int
}

func (r *corruptReader) Read(p []byte) (int, error) {
	if r.read >= r.failAt {
		return 0, errors.New("simulated read error")
	}
	n := copy(p, r.source[r.read:min(len(r.source), r.failAt)])
	r.read += n

	return n, nil
}

func TestUploadImage(t *testing.T) {
	t.Parallel()

	client := setupMinio(t)
	uploader := NewUploader(client, &UploaderConfig{Timeout: 5000})
	remover := NewRemover(client, &RemoverConfig{Timeout: 5000})
	ctx := context.Background()

	img := pngBytes(t)

	tests := []struct {
		name     string
		body     io.Reader
		size     int64
		checkErr func(t *testing.T, err error)
	}{
		{
			name: "png with known size",
			body: bytes.NewReader(img),
			size: int64(len(img)),
		},
		{
			name: "png with unknown size",
			body: bytes.NewReader(img),
			size: -1,
		},
		{
			name: "plain text is rejected",
			body: strings.NewReader("hello, world!"),
			size: 13,
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, imagehost.ErrUnsupportedType)
			},
		},
		{
			name: "empty body is rejected",
			body: bytes.NewReader(nil),
			size: 0,
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.ErrorIs(t, err, imagehost.ErrEmptyFile)
			},
		},
		{
			name: "read failure",
			body: &corruptReader{source: img, failAt: 10},
			size: int64(len(img)),
			checkErr: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, apperr.Is(err, apperr.KindUpload))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := uploader.Upload(ctx, tt.body, tt.size, "avatars")
			if tt.checkErr != nil {
				require.Error(t, err)
				tt.checkErr(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "image/png", res.Type)
			assert.Equal(t, int64(len(img)), res.Size)
			assert.True(t, strings.HasPrefix(res.Object, "avatars/"))
			assert.True(t, strings.HasSuffix(res.Object, ".png"))

			resp, err := http.Get(res.Location) //nolint:noctx
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, "bucket must be publicly readable")
			assert.Equal(t, img, body)

			require.NoError(t, remover.Remove(ctx, res.Location))

			_, err = client.MinioClient.StatObject(ctx, BucketName, res.Object, minio.StatObjectOptions{})
			assert.Error(t, err)
		})
	}
}

func TestRemoveIgnoresForeignLocations(t *testing.T) {
	t.Parallel()

	client, err := New(&ClientConfig{Endpoint: "localhost:9000", Bucket: "images"})
	require.NoError(t, err)
	remover := NewRemover(client, &RemoverConfig{Timeout: 10})

	for _, location := range []string{
		"",
		"https://example.com/me.png",
		"http://localhost:9000/other/me.png",
		"http://localhost:9000/images/",
	} {
		assert.NoError(t, remover.Remove(context.Background(), location), location)
	}
}

func TestObjectURLRoundTrip(t *testing.T) {
	t.Parallel()

	client, err := New(&ClientConfig{
		Endpoint:  "localhost:9000",
		Bucket:    "images",
		PublicURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)

	location := client.ObjectURL("covers/x.png")
	assert.Equal(t, "https://cdn.example.com/images/covers/x.png", location)

	object, ok := client.ObjectFromURL(location)
	assert.True(t, ok)
	assert.Equal(t, "covers/x.png", object)
}
