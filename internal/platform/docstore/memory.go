package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Compile-time contract assertions.
var (
	_ Store = (*MemStore)(nil)
	_ Store = (*PGStore)(nil)
)

type memDoc struct {
	key string
	doc Document
}

// MemStore is a mutex-guarded in-memory Store used by tests and ephemeral
// environments. Field matching mirrors the Postgres implementation: values
// are compared by their string form.
type MemStore struct {
	mu          sync.Mutex
	collections map[string][]*memDoc
}

func NewMemStore() *MemStore {
	return &MemStore{collections: make(map[string][]*memDoc)}
}

// copyDoc deep-copies through JSON so callers never alias stored state.
func copyDoc(doc Document) Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		out := make(Document, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		return out
	}
	var out Document
	json.Unmarshal(raw, &out)
	return out
}

func fieldEquals(doc Document, field string, value interface{}) bool {
	got, ok := doc[field]
	if !ok {
		return false
	}
	return fmt.Sprintf("%v", got) == fmt.Sprintf("%v", value)
}

func (s *MemStore) GetByKey(ctx context.Context, collection, key string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.collections[collection] {
		if d.key == key {
			return copyDoc(d.doc), nil
		}
	}
	return nil, ErrNoDocument
}

func (s *MemStore) FindOne(ctx context.Context, collection, field string, value interface{}) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.collections[collection] {
		if fieldEquals(d.doc, field, value) {
			return copyDoc(d.doc), nil
		}
	}
	return nil, ErrNoDocument
}

func (s *MemStore) Find(ctx context.Context, collection, field string, value interface{}) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docs []Document
	for _, d := range s.collections[collection] {
		if fieldEquals(d.doc, field, value) {
			docs = append(docs, copyDoc(d.doc))
		}
	}
	return docs, nil
}

func (s *MemStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.New().String()
	s.collections[collection] = append(s.collections[collection], &memDoc{key: key, doc: copyDoc(doc)})
	return key, nil
}

func (s *MemStore) InsertMany(ctx context.Context, collection string, docs []Document) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		key := uuid.New().String()
		s.collections[collection] = append(s.collections[collection], &memDoc{key: key, doc: copyDoc(doc)})
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *MemStore) Apply(ctx context.Context, collection, field string, value interface{}, fn func(Document) (Document, error)) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.collections[collection] {
		if !fieldEquals(d.doc, field, value) {
			continue
		}
		updated, err := fn(copyDoc(d.doc))
		if err != nil {
			return nil, err
		}
		d.doc = copyDoc(updated)
		return updated, nil
	}
	return nil, ErrNoDocument
}

func (s *MemStore) Truncate(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, collection)
	return nil
}
