package usecase

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"blogd/internal/domain/entity"
	"blogd/internal/domain/model"
	"blogd/internal/domain/repository/broker"
	"blogd/internal/infrastructure/filestore"
)

func newStore(t *testing.T) *filestore.Store {
	t.Helper()

	s, err := filestore.New(afero.NewMemMapFs(), filestore.Config{Dir: "/data"})
	require.NoError(t, err)

	return s
}

type fakeUploader struct {
	mu      sync.Mutex
	err     error
	folders []string
	next    string
}

func (f *fakeUploader) Upload(_ context.Context, body io.Reader, _ int64, folder string,
) (entity.ImageUploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return entity.ImageUploadResult{}, f.err
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return entity.ImageUploadResult{}, err
	}

	f.folders = append(f.folders, folder)

	return entity.ImageUploadResult{
		Size:     int64(len(data)),
		Type:     "image/png",
		Location: f.next,
	}, nil
}

type fakeRemover struct {
	mu      sync.Mutex
	err     error
	removed []string
}

func (f *fakeRemover) Remove(_ context.Context, location string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removed = append(f.removed, location)

	return f.err
}

func (f *fakeRemover) locations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.removed...)
}

type fakeSender struct {
	mu   sync.Mutex
	errs []error
	sent []model.Email
}

// Send fails with the queued errors in order, then succeeds.
func (f *fakeSender) Send(_ context.Context, email model.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]

		return err
	}

	f.sent = append(f.sent, email)

	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	bodies []string
}

func (f *fakePublisher) Publish(_ context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}

	f.bodies = append(f.bodies, message)

	return nil
}

type fakeMessage struct {
	id    string
	body  string
	acked bool
}

func (m *fakeMessage) ID() string   { return m.id }
func (m *fakeMessage) Body() string { return m.body }

func (m *fakeMessage) Ack(context.Context) error {
	m.acked = true

	return nil
}

type fakeReceiver struct {
	messages []broker.Message
}

func (f *fakeReceiver) Messages(_ context.Context, _ string) (<-chan broker.Message, error) {
	out := make(chan broker.Message, len(f.messages))
	for _, m := range f.messages {
		out <- m
	}
	close(out)

	return out, nil
}
