package domain

import "time"

// MirrorRecord is the vector index counterpart of a content entity.
type MirrorRecord struct {
	IndexId   IndexId
	Kind      Kind
	DocId     ContentId
	Embedding []float32
	UpdatedAt time.Time
}

// SearchHit is a raw vector index match. Score is cosine similarity in [-1, 1].
type SearchHit struct {
	IndexId IndexId
	Kind    Kind
	DocId   ContentId
	Score   float64
}

// SearchResult is a search hit hydrated from the document store.
type SearchResult struct {
	Kind     Kind      `json:"kind"`
	Id       ContentId `json:"id"`
	IndexId  IndexId   `json:"indexId"`
	ForumId  ContentId `json:"forumId,omitempty"`
	ThreadId ContentId `json:"threadId,omitempty"`
	PostId   ContentId `json:"postId,omitempty"`
	Title    string    `json:"title,omitempty"`
	Snippet  string    `json:"snippet"`
	Score    float64   `json:"score"`
}
