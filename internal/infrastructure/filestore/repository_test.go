package filestore

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogd/internal/domain/apperr"
	"blogd/internal/domain/model"
)

func newAuthorRepository(t *testing.T) (*Repository[model.Author], afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	s, err := New(fs, Config{Dir: "/data"})
	require.NoError(t, err)

	return NewRepository[model.Author](s, model.AuthorCollection), fs
}

func TestRepositoryLifecycle(t *testing.T) {
	t.Parallel()

	repo, fs := newAuthorRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Author{ID: "a1", Name: "Ann", Email: "a@x.com"}))
	require.NoError(t, repo.Insert(ctx, model.Author{ID: "a2", Name: "Bob", Email: "b@x.com"}))

	exists, err := afero.Exists(fs, "/data/authors.json")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	updated, err := repo.Update(ctx, "a1", func(a model.Author) (model.Author, error) {
		a.Email = "ann@x.com"
		return a, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.Name)
	assert.Equal(t, "ann@x.com", updated.Email)

	removed, err := repo.Delete(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", removed.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "ann@x.com", all[0].Email)
}

func TestRepositoryNotFound(t *testing.T) {
	t.Parallel()

	repo, _ := newAuthorRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, model.Author{ID: "a1"}))

	_, err := repo.Get(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = repo.Update(ctx, "missing", func(a model.Author) (model.Author, error) { return a, nil })
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = repo.Delete(ctx, "a1")
	require.NoError(t, err)

	_, err = repo.Delete(ctx, "a1")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRepositoryDuplicateID(t *testing.T) {
	t.Parallel()

	repo, _ := newAuthorRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, model.Author{ID: "a1"}))
	err := repo.Insert(ctx, model.Author{ID: "a1"})
	assert.True(t, apperr.Is(err, apperr.KindStorage))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepositoryMergeErrorSkipsSave(t *testing.T) {
	t.Parallel()

	repo, _ := newAuthorRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, model.Author{ID: "a1", Name: "Ann"}))

	rejected := apperr.Validation(apperr.Check{Field: "name", Message: "name is required"})
	_, err := repo.Update(ctx, "a1", func(a model.Author) (model.Author, error) {
		a.Name = ""
		return a, rejected
	})
	assert.Equal(t, rejected, err)

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}

func TestRepositoryConcurrentWritesAreNotLost(t *testing.T) {
	t.Parallel()

	repo, _ := newAuthorRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.Insert(ctx, model.Author{ID: "shared"}))

	const writers = 40

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			if i%2 == 0 {
				assert.NoError(t, repo.Insert(ctx, model.Author{ID: fmt.Sprintf("a%d", i)}))

				return
			}

			_, err := repo.Update(ctx, "shared", func(a model.Author) (model.Author, error) {
				a.Name += "x"
				return a, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1+writers/2)

	shared, err := repo.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, shared.Name, writers/2, "every update must survive")
}

func TestRepositoriesShareCollectionLock(t *testing.T) {
	t.Parallel()

	s, err := New(afero.NewMemMapFs(), Config{Dir: "/data"})
	require.NoError(t, err)

	first := NewRepository[model.Author](s, model.AuthorCollection)
	second := NewRepository[model.Author](s, model.AuthorCollection)
	posts := NewRepository[model.BlogPost](s, model.BlogPostCollection)

	assert.Same(t, first.writeLock, second.writeLock)
	assert.NotSame(t, first.writeLock, posts.writeLock)
}
