package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/afero"

	"blogd/internal/domain/apperr"
)

// Accessor reads and writes one collection as a JSON array in a single file.
type Accessor[T any] struct {
	fs         afero.Fs
	path       string
	collection string
}

func NewAccessor[T any](fs afero.Fs, path, collection string) *Accessor[T] {
	return &Accessor[T]{
		fs:         fs,
		path:       path,
		collection: collection,
	}
}

// Load returns the whole collection. A missing or empty file is an empty
// collection.
func (a *Accessor[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Storage(err, "load %s", a.collection)
	}

	data, err := afero.ReadFile(a.fs, a.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}

		return nil, apperr.Storage(err, "read %s", a.collection)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, apperr.Storage(err, "malformed %s file", a.collection)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// Save replaces the collection file. The data goes to a temp file in the same
// directory which is renamed over the target, so a failed save leaves the
// previous content in place.
func (a *Accessor[T]) Save(ctx context.Context, items []T) error {
	if err := ctx.Err(); err != nil {
		return apperr.Storage(err, "save %s", a.collection)
	}

	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return apperr.Storage(err, "encode %s", a.collection)
	}

	dir := filepath.Dir(a.path)
	if err := a.fs.MkdirAll(dir, 0o755); err != nil {
		return apperr.Storage(err, "create %s", dir)
	}

	tmp, err := afero.TempFile(a.fs, dir, "."+filepath.Base(a.path)+"-*.tmp")
	if err != nil {
		return apperr.Storage(err, "create temp file for %s", a.collection)
	}

	tmpName := tmp.Name()
	if err := writeAndClose(tmp, data); err != nil {
		_ = a.fs.Remove(tmpName)

		return apperr.Storage(err, "write %s", a.collection)
	}

	if err := a.fs.Rename(tmpName, a.path); err != nil {
		_ = a.fs.Remove(tmpName)

		return apperr.Storage(err, "replace %s", a.collection)
	}

	return nil
}

func writeAndClose(f afero.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return err
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}

// Stream decodes the collection one record at a time. The sequence ends after
// the first error it yields.
func (a *Accessor[T]) Stream(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		f, err := a.fs.Open(a.path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				yield(zero, apperr.Storage(err, "open %s", a.collection))
			}

			return
		}
		defer f.Close()

		dec := json.NewDecoder(f)

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) || (err == nil && tok == nil) {
			return
		}
		if err != nil {
			yield(zero, apperr.Storage(err, "read %s", a.collection))

			return
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '[' {
			yield(zero, apperr.Storage(errors.Errorf("unexpected token %v", tok), "malformed %s file", a.collection))

			return
		}

		for dec.More() {
			if err := ctx.Err(); err != nil {
				yield(zero, apperr.Storage(err, "stream %s", a.collection))

				return
			}

			var item T
			if err := dec.Decode(&item); err != nil {
				yield(zero, apperr.Storage(err, "malformed %s file", a.collection))

				return
			}

			if !yield(item, nil) {
				return
			}
		}

		if _, err := dec.Token(); err != nil {
			yield(zero, apperr.Storage(err, "malformed %s file", a.collection))
		}
	}
}
