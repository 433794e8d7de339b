// Package vector is the semantic index: one embedding per content entity,
// keyed by the entity's index id, stored with pgvector.
package vector

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/campusnet/campusnet/shared/config"
	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
	sharedpg "github.com/campusnet/campusnet/shared/storage/pg"
	"github.com/pgvector/pgvector-go"
)

//go:embed migrations/init.sql
var schemaTemplate string

// Schema returns the index schema for embeddings of the given size.
func Schema(dimensions int) string {
	return fmt.Sprintf(schemaTemplate, dimensions)
}

type Index struct {
	db         *sql.DB
	dimensions int
}

func New(ctx context.Context, cfg config.Pg, connCfg sharedpg.ConnectionConfig, dimensions int) (*Index, error) {
	logger.Log.Info("connecting to vector index", "host", cfg.Host, "dbname", cfg.Dbname, "dimensions", dimensions)
	db, err := sharedpg.Connect(ctx, cfg, connCfg)
	if err != nil {
		return nil, err
	}
	if err := sharedpg.Migrate(ctx, db, Schema(dimensions)); err != nil {
		db.Close()
		return nil, err
	}
	return &Index{db: db, dimensions: dimensions}, nil
}

func (i *Index) Cleanup() error {
	return i.db.Close()
}

func (i *Index) Ping(ctx context.Context) error {
	return i.db.PingContext(ctx)
}

func indexErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, internal_errors.ErrIndexWrite, err)
}

// Upsert inserts or overwrites the record with the same index id.
func (i *Index) Upsert(ctx context.Context, r domain.MirrorRecord) error {
	if len(r.Embedding) != i.dimensions {
		return indexErr("upsert", fmt.Errorf("embedding has %d dimensions, index expects %d", len(r.Embedding), i.dimensions))
	}
	_, err := i.db.ExecContext(ctx, `
        INSERT INTO content_vectors (index_id, kind, doc_id, embedding, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (index_id) DO UPDATE
        SET kind = EXCLUDED.kind, doc_id = EXCLUDED.doc_id, embedding = EXCLUDED.embedding, updated_at = EXCLUDED.updated_at
    `, r.IndexId, string(r.Kind), r.DocId, pgvector.NewVector(r.Embedding), r.UpdatedAt)
	if err != nil {
		return indexErr("upsert", err)
	}
	return nil
}

// Delete removes a record. Unknown ids are not an error.
func (i *Index) Delete(ctx context.Context, indexId domain.IndexId) error {
	if _, err := i.db.ExecContext(ctx, `DELETE FROM content_vectors WHERE index_id = $1`, indexId); err != nil {
		return indexErr("delete", err)
	}
	return nil
}

// Search returns the nearest records by cosine similarity, best first.
func (i *Index) Search(ctx context.Context, embedding []float32, limit int) ([]domain.SearchHit, error) {
	rows, err := i.db.QueryContext(ctx, `
        SELECT index_id, kind, doc_id, 1 - (embedding <=> $1) AS score
        FROM content_vectors
        ORDER BY embedding <=> $1, index_id
        LIMIT $2
    `, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, indexErr("search", err)
	}
	defer rows.Close()

	hits := []domain.SearchHit{}
	for rows.Next() {
		var h domain.SearchHit
		var kind string
		if err := rows.Scan(&h.IndexId, &kind, &h.DocId, &h.Score); err != nil {
			return nil, indexErr("scan hit", err)
		}
		h.Kind = domain.Kind(kind)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, indexErr("search", err)
	}
	return hits, nil
}

// ListMirrors returns every record without its embedding.
func (i *Index) ListMirrors(ctx context.Context) ([]domain.MirrorRecord, error) {
	rows, err := i.db.QueryContext(ctx, `SELECT index_id, kind, doc_id, updated_at FROM content_vectors`)
	if err != nil {
		return nil, indexErr("list mirrors", err)
	}
	defer rows.Close()

	var out []domain.MirrorRecord
	for rows.Next() {
		var r domain.MirrorRecord
		var kind string
		if err := rows.Scan(&r.IndexId, &kind, &r.DocId, &r.UpdatedAt); err != nil {
			return nil, indexErr("scan mirror", err)
		}
		r.Kind = domain.Kind(kind)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, indexErr("list mirrors", err)
	}
	return out, nil
}
