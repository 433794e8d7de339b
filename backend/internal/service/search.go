package service

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
)

const snippetLength = 200

type SearchService interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Search answers semantic queries from the vector index. Every hit is
// hydrated from the document store, which decides what is visible.
type Search struct {
	reader   ContentReader
	index    VectorIndex
	embedder Embedder
	limit    int
	timeout  time.Duration
	log      *slog.Logger
}

func NewSearch(reader ContentReader, index VectorIndex, embedder Embedder, limit int, timeout time.Duration) *Search {
	return &Search{
		reader:   reader,
		index:    index,
		embedder: embedder,
		limit:    limit,
		timeout:  timeout,
		log:      logger.Component("search"),
	}
}

var _ SearchService = (*Search)(nil)

func (s *Search) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.InvalidOperation("Search query is empty")
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, wrapAs(errors.ErrEmbedding, "embed query", err)
	}
	hits, err := s.index.Search(ctx, vec, s.limit)
	if err != nil {
		return nil, wrapAs(errors.ErrIndexWrite, "search index", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc, err := lookup(ctx, s.reader, hit.Kind, hit.DocId)
		if errors.IsNotFound(err) {
			s.log.Info("dropping stale search hit", "index_id", hit.IndexId, "kind", hit.Kind, "doc_id", hit.DocId)
			continue
		}
		if err != nil {
			return nil, err
		}
		if doc.Ref().IndexId != hit.IndexId {
			s.log.Info("dropping mismatched search hit", "index_id", hit.IndexId, "doc_index_id", doc.Ref().IndexId)
			continue
		}
		results = append(results, toResult(doc, hit.Score))
	}
	return results, nil
}

func toResult(doc domain.Content, score float64) domain.SearchResult {
	ref := doc.Ref()
	r := domain.SearchResult{Kind: ref.Kind, Id: ref.Id, IndexId: ref.IndexId, Score: score}
	switch d := doc.(type) {
	case domain.Forum:
		r.Title, r.Snippet = d.Title, snippet(d.Description)
	case domain.Thread:
		r.ForumId = d.ForumId
		r.Title, r.Snippet = d.Title, snippet(d.Description)
	case domain.Post:
		r.ThreadId = d.ThreadId
		r.Snippet = snippet(d.Content)
	case domain.Comment:
		r.PostId = d.PostId
		r.Snippet = snippet(d.Content)
	}
	return r
}

func snippet(text string) string {
	if utf8.RuneCountInString(text) <= snippetLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:snippetLength]) + "…"
}
