// Package docstore wraps a schema-less document collection behind a small
// get/find/insert/update interface. Documents are JSON objects queried by
// field equality; the store assigns each document an opaque key and leaves
// the document body uninterpreted.
package docstore

import (
	"context"
	"errors"
)

// Document is a raw JSON object as stored.
type Document map[string]interface{}

// ErrNoDocument is returned when no document matches the predicate.
var ErrNoDocument = errors.New("no matching document")

// Store is a document collection service. Collections are created lazily on
// first insert. FindOne and Apply assume field-equality predicates match at
// most one document; when several match, the first inserted wins.
type Store interface {
	// GetByKey returns the document with the store-assigned key.
	GetByKey(ctx context.Context, collection, key string) (Document, error)

	// FindOne returns the first document whose field equals value.
	FindOne(ctx context.Context, collection, field string, value interface{}) (Document, error)

	// Find returns all documents whose field equals value, in insertion order.
	Find(ctx context.Context, collection, field string, value interface{}) ([]Document, error)

	// Insert stores a new document and returns its assigned key.
	Insert(ctx context.Context, collection string, doc Document) (string, error)

	// InsertMany stores documents in order and returns their assigned keys.
	InsertMany(ctx context.Context, collection string, docs []Document) ([]string, error)

	// Apply atomically rewrites the document matching field=value: the
	// current document is read under a write lock, passed to fn, and the
	// returned document replaces it. A fn error aborts the update.
	Apply(ctx context.Context, collection, field string, value interface{}, fn func(Document) (Document, error)) (Document, error)

	// Truncate deletes every document in the collection.
	Truncate(ctx context.Context, collection string) error
}
