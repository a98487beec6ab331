package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by point reads of documents that do not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Document is one stored record. ID is the final path segment.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is a hierarchical, path-keyed document store. Paths alternate
// collection and document segments ("profiles/u1/favoriteFilms/f1").
// Implementations must be safe for concurrent use.
type Store interface {
	// Get reads the document at a document path.
	Get(ctx context.Context, path string) (Document, error)

	// Set creates or replaces the document at a document path.
	Set(ctx context.Context, path string, fields map[string]any) error

	// Merge creates the document if absent, otherwise overlays the
	// given fields onto the existing ones.
	Merge(ctx context.Context, path string, fields map[string]any) error

	// Delete removes the document at a document path. Deleting an
	// absent document is not an error.
	Delete(ctx context.Context, path string) error

	// List returns the immediate documents of a collection path, in
	// lexical path order. Listing an absent collection returns an
	// empty slice.
	List(ctx context.Context, path string) ([]Document, error)
}

// Path joins segments into a store path, rejecting empty segments and
// segments containing the separator.
func Path(segments ...string) (string, error) {
	for _, s := range segments {
		if s == "" {
			return "", errors.New("docstore: empty path segment")
		}
		if strings.Contains(s, "/") {
			return "", fmt.Errorf("docstore: path segment %q contains separator", s)
		}
	}
	return strings.Join(segments, "/"), nil
}

func docID(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return path
	}
	return path[i+1:]
}
