package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"blogd/internal/application/usecase"
	"blogd/internal/domain/entity"
	"blogd/internal/domain/model"
	"blogd/internal/infrastructure/filestore"
	"blogd/internal/presentation"
)

const dataDir = "/data"

type imageHost struct {
	removed []string
}

func (h *imageHost) Upload(_ context.Context, body io.Reader, _ int64, folder string,
) (entity.ImageUploadResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return entity.ImageUploadResult{}, err
	}

	return entity.ImageUploadResult{
		Size:     int64(len(data)),
		Type:     "image/png",
		Location: "http://img/" + folder + "/new.png",
	}, nil
}

func (h *imageHost) Remove(_ context.Context, location string) error {
	h.removed = append(h.removed, location)

	return nil
}

type queueDispatcher struct{}

func (queueDispatcher) Dispatch(context.Context, model.BlogPost) model.DeliveryReceipt {
	return model.DeliveryReceipt{Status: model.DeliveryQueued}
}

type testServer struct {
	echo *echo.Echo
	fs   afero.Fs
	host *imageHost
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	fs := afero.NewMemMapFs()
	store, err := filestore.New(fs, filestore.Config{Dir: dataDir})
	require.NoError(t, err)

	host := &imageHost{}

	authors := usecase.NewAuthorService(
		filestore.NewRepository[model.Author](store, model.AuthorCollection), host, host)
	posts := usecase.NewBlogPostService(
		filestore.NewRepository[model.BlogPost](store, model.BlogPostCollection), host, host, queueDispatcher{})

	e := echo.New()
	e.HTTPErrorHandler = presentation.HTTPErrorHandler
	e.Validator = presentation.NewValidator()

	NewAuthorHandler(authors).Register(e.Group("/authors"))
	NewBlogPostHandler(posts).Register(e.Group("/blogPosts"))

	return &testServer{echo: e, fs: fs, host: host}
}

func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func (s *testServer) upload(t *testing.T, target, field string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, "image.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, http.NoBody)
}
