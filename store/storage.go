package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"docqa/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ErrVectorStore wraps any upsert/query failure of the backing store.
var ErrVectorStore = errors.New("vector store failure")

type VectorStorer interface {
	Upsert(ctx context.Context, namespace string, records []types.Record) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]types.Match, error)
	ListNamespaces(ctx context.Context) ([]string, error)
	RegisterDocument(ctx context.Context, doc types.Document) error
	ListDocuments(ctx context.Context) ([]types.Document, error)
}

// PostgresStore keeps chunk vectors in Postgres/pgvector. A namespace is a
// plain column: one namespace per upload, queries always filter on it.
type PostgresStore struct {
	pool *pgxpool.Pool
	dim  int
}

func NewPostgresStore(ctx context.Context, connStr string, dim int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
		dim:  dim,
	}, nil
}

func (p *PostgresStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS vectors (
        namespace TEXT NOT NULL,
        id TEXT NOT NULL,
        content TEXT NOT NULL,
        embedding vector(%d),
        PRIMARY KEY (namespace, id)
    );

	CREATE INDEX IF NOT EXISTS idx_vectors_embedding ON vectors USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_vectors_namespace ON vectors(namespace);

	CREATE TABLE IF NOT EXISTS documents (
		namespace TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		chunks INT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
    `, p.dim)
	_, err := p.pool.Exec(ctx, query)
	return err
}

// Upsert writes all records of one upload in a single batch. Idempotent by
// id within a namespace, last write wins.
func (p *PostgresStore) Upsert(ctx context.Context, namespace string, records []types.Record) error {
	if len(records) == 0 {
		return nil
	}

	query := `
	INSERT INTO vectors (namespace, id, content, embedding)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (namespace, id) DO UPDATE SET
		content = EXCLUDED.content,
		embedding = EXCLUDED.embedding
	`

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(query, namespace, r.ID, r.Text, pgvector.NewVector(r.Embedding))
	}

	br := p.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("%w: upsert: %v", ErrVectorStore, err)
		}
	}
	return nil
}

// Query returns up to topK matches within one namespace, best first.
// Score is cosine similarity, 1 - (embedding <=> q).
func (p *PostgresStore) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]types.Match, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty query vector", ErrVectorStore)
	}

	query := `
		SELECT id, content, 1-(embedding <=> $1) AS score
		FROM vectors
		WHERE namespace = $2 AND embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $3
	`
	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(vector), namespace, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrVectorStore, err)
	}
	defer rows.Close()

	var matches []types.Match
	for rows.Next() {
		var m types.Match
		if err := rows.Scan(&m.ID, &m.Text, &m.Score); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrVectorStore, err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrVectorStore, err)
	}
	return matches, nil
}

// ListNamespaces is the "describe" operation: the fan-out set for a
// global query.
func (p *PostgresStore) ListNamespaces(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, "SELECT DISTINCT namespace FROM vectors")
	if err != nil {
		return nil, fmt.Errorf("%w: list namespaces: %v", ErrVectorStore, err)
	}
	defer rows.Close()

	var namespaces []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrVectorStore, err)
		}
		namespaces = append(namespaces, ns)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrVectorStore, err)
	}
	return namespaces, nil
}

func (p *PostgresStore) RegisterDocument(ctx context.Context, doc types.Document) error {
	query := `
	INSERT INTO documents (namespace, file_name, chunks, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (namespace) DO UPDATE SET
		file_name = EXCLUDED.file_name,
		chunks = EXCLUDED.chunks
	`
	_, err := p.pool.Exec(ctx, query, doc.Namespace, doc.FileName, doc.Chunks, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: register document: %v", ErrVectorStore, err)
	}
	return nil
}

func (p *PostgresStore) ListDocuments(ctx context.Context) ([]types.Document, error) {
	rows, err := p.pool.Query(ctx, "SELECT namespace, file_name, chunks, created_at FROM documents ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrVectorStore, err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var d types.Document
		if err := rows.Scan(&d.Namespace, &d.FileName, &d.Chunks, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrVectorStore, err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrVectorStore, err)
	}
	return docs, nil
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
