package filestore

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/model"
)

const authorsPath = "/data/authors.json"

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   *string
		wantLen   int
		wantError bool
	}{
		{name: "missing file is empty", content: nil, wantLen: 0},
		{name: "blank file is empty", content: ptr("  \n"), wantLen: 0},
		{name: "null is empty", content: ptr("null"), wantLen: 0},
		{name: "two records", content: ptr(`[{"_id":"a1","name":"Ann"},{"_id":"a2","name":"Bob"}]`), wantLen: 2},
		{name: "malformed", content: ptr(`[{"_id":"a1",`), wantError: true},
		{name: "not an array", content: ptr(`{"_id":"a1"}`), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			if tt.content != nil {
				require.NoError(t, afero.WriteFile(fs, authorsPath, []byte(*tt.content), 0o644))
			}

			items, err := NewAccessor[model.Author](fs, authorsPath, model.AuthorCollection).Load(context.Background())
			if tt.wantError {
				assert.True(t, apperr.Is(err, apperr.KindStorage))

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, items)
			assert.Len(t, items, tt.wantLen)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	acc := NewAccessor[model.Author](fs, authorsPath, model.AuthorCollection)
	ctx := context.Background()

	require.NoError(t, acc.Save(ctx, []model.Author{{ID: "a1", Name: "Ann"}}))

	items, err := acc.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ann", items[0].Name)

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFailedSaveKeepsPreviousContent(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	original := `[{"_id":"a1","name":"Ann"}]`
	require.NoError(t, afero.WriteFile(base, authorsPath, []byte(original), 0o644))

	acc := NewAccessor[model.Author](afero.NewReadOnlyFs(base), authorsPath, model.AuthorCollection)

	err := acc.Save(context.Background(), []model.Author{{ID: "a2", Name: "Bob"}})
	assert.True(t, apperr.Is(err, apperr.KindStorage))

	data, err := afero.ReadFile(base, authorsPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
}

func TestSaveCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewAccessor[model.Author](afero.NewMemMapFs(), authorsPath, model.AuthorCollection).Save(ctx, nil)
	assert.True(t, apperr.Is(err, apperr.KindStorage))
}

func TestStream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   *string
		wantIDs   []string
		wantError bool
	}{
		{name: "missing file", content: nil, wantIDs: []string{}},
		{name: "empty array", content: ptr(`[]`), wantIDs: []string{}},
		{name: "empty file", content: ptr(``), wantIDs: []string{}},
		{name: "records in order", content: ptr(`[{"_id":"a1"},{"_id":"a2"},{"_id":"a3"}]`), wantIDs: []string{"a1", "a2", "a3"}},
		{name: "truncated after first record", content: ptr(`[{"_id":"a1"},{"_id":`), wantIDs: []string{"a1"}, wantError: true},
		{name: "object instead of array", content: ptr(`{"_id":"a1"}`), wantIDs: []string{}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			if tt.content != nil {
				require.NoError(t, afero.WriteFile(fs, authorsPath, []byte(*tt.content), 0o644))
			}

			ids := []string{}
			var streamErr error
			for rec, err := range NewAccessor[model.Author](fs, authorsPath, model.AuthorCollection).Stream(context.Background()) {
				if err != nil {
					streamErr = err

					break
				}
				ids = append(ids, rec.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
			if tt.wantError {
				assert.True(t, apperr.Is(streamErr, apperr.KindStorage))
			} else {
				assert.NoError(t, streamErr)
			}
		})
	}
}

func ptr(s string) *string {
	return &s
}
