package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore keeps every collection in a single documents table with a jsonb
// body column. Field-equality predicates translate to doc->>field lookups.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// NewPool opens a pgx connection pool and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Init creates the documents table and its lookup index.
func (s *PGStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			key        text PRIMARY KEY,
			collection text NOT NULL,
			doc        jsonb NOT NULL,
			seq        bigserial,
			created_at timestamptz NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS documents_collection_idx ON documents (collection, seq);
		CREATE INDEX IF NOT EXISTS documents_doc_idx ON documents USING gin (doc)`)
	if err != nil {
		return fmt.Errorf("create documents schema: %w", err)
	}
	return nil
}

func scanDoc(row pgx.Row) (Document, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (s *PGStore) GetByKey(ctx context.Context, collection, key string) (Document, error) {
	return scanDoc(s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND key = $2`, collection, key))
}

func (s *PGStore) FindOne(ctx context.Context, collection, field string, value interface{}) (Document, error) {
	return scanDoc(s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND doc->>$2 = $3 ORDER BY seq LIMIT 1`,
		collection, field, fmt.Sprintf("%v", value)))
}

func (s *PGStore) Find(ctx context.Context, collection, field string, value interface{}) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND doc->>$2 = $3 ORDER BY seq`,
		collection, field, fmt.Sprintf("%v", value))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *PGStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	key := uuid.New().String()
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO documents (key, collection, doc) VALUES ($1, $2, $3)`, key, collection, raw)
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *PGStore) InsertMany(ctx context.Context, collection string, docs []Document) ([]string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	keys := make([]string, 0, len(docs))
	for _, doc := range docs {
		key := uuid.New().String()
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode document: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO documents (key, collection, doc) VALUES ($1, $2, $3)`, key, collection, raw); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return keys, nil
}

// Apply locks the matching row with FOR UPDATE so concurrent appenders to
// the same document serialize instead of losing writes.
func (s *PGStore) Apply(ctx context.Context, collection, field string, value interface{}, fn func(Document) (Document, error)) (Document, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var key string
	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT key, doc FROM documents WHERE collection = $1 AND doc->>$2 = $3 ORDER BY seq LIMIT 1 FOR UPDATE`,
		collection, field, fmt.Sprintf("%v", value)).Scan(&key, &raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNoDocument
		}
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	updated, err := fn(doc)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(updated)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE documents SET doc = $1 WHERE key = $2`, out, key); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PGStore) Truncate(ctx context.Context, collection string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1`, collection)
	return err
}
