// Package collection applies a single change to an in-memory collection.
//
// Functions never modify the slice they are given; they return a new one that
// can be persisted as a whole.
package collection

import (
	"strings"

	"github.com/Laisky/errors/v2"

	"blogd/internal/domain/model"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate record id")
)

// Find returns the record with id and its index, or -1.
func Find[T model.Record](items []T, id string) (T, int) {
	for i, item := range items {
		if item.RecordID() == id {
			return item, i
		}
	}

	var zero T

	return zero, -1
}

func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}

	return out
}

// Append adds rec at the end. Ids stay unique within the collection.
func Append[T model.Record](items []T, rec T) ([]T, error) {
	if _, i := Find(items, rec.RecordID()); i >= 0 {
		return nil, errors.Wrapf(ErrDuplicateID, "id %s", rec.RecordID())
	}

	out := make([]T, 0, len(items)+1)
	out = append(out, items...)

	return append(out, rec), nil
}

// Replace merges the record with id through merge and keeps it at its
// original position. The merged record must keep its id.
func Replace[T model.Record](items []T, id string, merge func(T) (T, error)) ([]T, T, error) {
	var zero T

	current, i := Find(items, id)
	if i < 0 {
		return nil, zero, errors.Wrapf(ErrNotFound, "id %s", id)
	}

	updated, err := merge(current)
	if err != nil {
		return nil, zero, err
	}

	if updated.RecordID() != id {
		return nil, zero, errors.Errorf("merge changed record id from %s to %s", id, updated.RecordID())
	}

	out := make([]T, len(items))
	copy(out, items)
	out[i] = updated

	return out, updated, nil
}

// Remove drops the record with id.
func Remove[T model.Record](items []T, id string) ([]T, T, error) {
	removed, i := Find(items, id)
	if i < 0 {
		var zero T

		return nil, zero, errors.Wrapf(ErrNotFound, "id %s", id)
	}

	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	out = append(out, items[i+1:]...)

	return out, removed, nil
}

// MatchesFold reports whether query occurs in value, ignoring case.
// An empty query matches everything.
func MatchesFold(value, query string) bool {
	if query == "" {
		return true
	}

	return strings.Contains(strings.ToLower(value), strings.ToLower(query))
}
