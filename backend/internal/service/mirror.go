package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusnet/campusnet/shared/domain"
	internal_errors "github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
)

// Embedder turns free text into a fixed length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is the secondary store keyed by index id.
type VectorIndex interface {
	// Upsert inserts or overwrites the record with the same index id.
	Upsert(ctx context.Context, record domain.MirrorRecord) error
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, indexId domain.IndexId) error
	Search(ctx context.Context, embedding []float32, limit int) ([]domain.SearchHit, error)
	// ListMirrors returns every record without its embedding.
	ListMirrors(ctx context.Context) ([]domain.MirrorRecord, error)
}

// Mirror writes and removes the vector index counterparts of content entities.
type Mirror struct {
	index    VectorIndex
	embedder Embedder
	now      func() time.Time
	log      *slog.Logger
}

func NewMirror(index VectorIndex, embedder Embedder) *Mirror {
	return &Mirror{
		index:    index,
		embedder: embedder,
		now:      time.Now,
		log:      logger.Component("mirror"),
	}
}

// Sync embeds text and overwrites the mirror of ref in place.
func (m *Mirror) Sync(ctx context.Context, ref domain.ContentRef, text string) error {
	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		mirrorWrites.WithLabelValues("upsert", "embedding_error").Inc()
		m.log.Warn("embedding failed", "ref", ref.String(), "error", err)
		return wrapAs(internal_errors.ErrEmbedding, "embed "+ref.String(), err)
	}

	err = m.index.Upsert(ctx, domain.MirrorRecord{
		IndexId:   ref.IndexId,
		Kind:      ref.Kind,
		DocId:     ref.Id,
		Embedding: vec,
		UpdatedAt: m.now().UTC(),
	})
	if err != nil {
		mirrorWrites.WithLabelValues("upsert", "index_error").Inc()
		m.log.Warn("mirror upsert failed", "ref", ref.String(), "error", err)
		return wrapAs(internal_errors.ErrIndexWrite, "upsert "+ref.String(), err)
	}

	mirrorWrites.WithLabelValues("upsert", "ok").Inc()
	return nil
}

// Remove deletes the mirror of ref.
func (m *Mirror) Remove(ctx context.Context, ref domain.ContentRef) error {
	if err := m.index.Delete(ctx, ref.IndexId); err != nil {
		mirrorWrites.WithLabelValues("delete", "index_error").Inc()
		m.log.Warn("mirror delete failed", "ref", ref.String(), "error", err)
		return wrapAs(internal_errors.ErrIndexWrite, "delete "+ref.String(), err)
	}
	mirrorWrites.WithLabelValues("delete", "ok").Inc()
	return nil
}

// wrapAs makes sure err matches sentinel with errors.Is.
func wrapAs(sentinel error, op string, err error) error {
	if errors.Is(err, sentinel) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, err)
}
