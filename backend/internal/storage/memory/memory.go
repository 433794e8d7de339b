// Package memory holds in-process stand-ins for the document store and the
// vector index. They back the engine tests and local runs without postgres.
package memory

import (
	"context"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/errors"
)

type Store struct {
	mu            sync.RWMutex
	forums        map[domain.ContentId]domain.Forum
	threads       map[domain.ContentId]domain.Thread
	posts         map[domain.ContentId]domain.Post
	comments      map[domain.ContentId]domain.Comment
	notifications map[domain.ContentId]domain.Notification
}

func New() *Store {
	return &Store{
		forums:        make(map[domain.ContentId]domain.Forum),
		threads:       make(map[domain.ContentId]domain.Thread),
		posts:         make(map[domain.ContentId]domain.Post),
		comments:      make(map[domain.ContentId]domain.Comment),
		notifications: make(map[domain.ContentId]domain.Notification),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// copies keep callers from mutating stored sets

func copyThread(t domain.Thread) domain.Thread {
	t.Watchers = t.Watchers.Clone()
	return t
}

func copyPost(p domain.Post) domain.Post {
	p.Reactions = p.Reactions.Clone()
	return p
}

func copyComment(c domain.Comment) domain.Comment {
	c.Reactions = c.Reactions.Clone()
	return c
}

func copyNotification(n domain.Notification) domain.Notification {
	n.Recipients = n.Recipients.Clone()
	n.SeenBy = n.SeenBy.Clone()
	return n
}

func (s *Store) CreateForum(ctx context.Context, forum domain.Forum) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forums[forum.Id] = forum
	return nil
}

func (s *Store) CreateThread(ctx context.Context, thread domain.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forums[thread.ForumId]; !ok {
		return errors.NotFound("Forum not found")
	}
	s.threads[thread.Id] = copyThread(thread)
	return nil
}

func (s *Store) CreatePost(ctx context.Context, post domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[post.ThreadId]; !ok {
		return errors.NotFound("Thread not found")
	}
	s.posts[post.Id] = copyPost(post)
	return nil
}

func (s *Store) CreateComment(ctx context.Context, comment domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[comment.PostId]; !ok {
		return errors.NotFound("Post not found")
	}
	s.comments[comment.Id] = copyComment(comment)
	return nil
}

func (s *Store) GetForum(ctx context.Context, id domain.ContentId) (domain.Forum, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forums[id]
	if !ok {
		return domain.Forum{}, errors.NotFound("Forum not found")
	}
	return f, nil
}

func (s *Store) GetThread(ctx context.Context, id domain.ContentId) (domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return domain.Thread{}, errors.NotFound("Thread not found")
	}
	return copyThread(t), nil
}

func (s *Store) GetPost(ctx context.Context, id domain.ContentId) (domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return domain.Post{}, errors.NotFound("Post not found")
	}
	return s.withCount(p), nil
}

func (s *Store) GetComment(ctx context.Context, id domain.ContentId) (domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return domain.Comment{}, errors.NotFound("Comment not found")
	}
	return copyComment(c), nil
}

// withCount must be called with the lock held.
func (s *Store) withCount(p domain.Post) domain.Post {
	p = copyPost(p)
	p.CommentsCount = 0
	for _, c := range s.comments {
		if c.PostId == p.Id {
			p.CommentsCount++
		}
	}
	return p
}

func (s *Store) UpdateForum(ctx context.Context, forum domain.Forum) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forums[forum.Id]
	if !ok {
		return errors.NotFound("Forum not found")
	}
	f.Title, f.Description, f.EditedAt = forum.Title, forum.Description, forum.EditedAt
	s.forums[f.Id] = f
	return nil
}

func (s *Store) UpdateThread(ctx context.Context, thread domain.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[thread.Id]
	if !ok {
		return errors.NotFound("Thread not found")
	}
	t.Title, t.Description, t.EditedAt = thread.Title, thread.Description, thread.EditedAt
	s.threads[t.Id] = t
	return nil
}

func (s *Store) UpdatePost(ctx context.Context, post domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[post.Id]
	if !ok {
		return errors.NotFound("Post not found")
	}
	p.Content, p.EditedAt = post.Content, post.EditedAt
	s.posts[p.Id] = p
	return nil
}

func (s *Store) UpdateComment(ctx context.Context, comment domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[comment.Id]
	if !ok {
		return errors.NotFound("Comment not found")
	}
	c.Content, c.EditedAt = comment.Content, comment.EditedAt
	s.comments[c.Id] = c
	return nil
}

func (s *Store) ChildRefs(ctx context.Context, kind domain.Kind, id domain.ContentId) ([]domain.ContentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []domain.ContentRef
	switch kind {
	case domain.KindForum:
		for _, t := range s.threads {
			if t.ForumId == id {
				refs = append(refs, t.Ref())
			}
		}
	case domain.KindThread:
		for _, p := range s.posts {
			if p.ThreadId == id {
				refs = append(refs, p.Ref())
			}
		}
	case domain.KindPost:
		for _, c := range s.comments {
			if c.PostId == id {
				refs = append(refs, c.Ref())
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Id < refs[j].Id })
	return refs, nil
}

// DeleteContent removes a single record. Children are left in place.
func (s *Store) DeleteContent(ctx context.Context, kind domain.Kind, id domain.ContentId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ok bool
	switch kind {
	case domain.KindForum:
		_, ok = s.forums[id]
		delete(s.forums, id)
	case domain.KindThread:
		_, ok = s.threads[id]
		delete(s.threads, id)
	case domain.KindPost:
		_, ok = s.posts[id]
		delete(s.posts, id)
	case domain.KindComment:
		_, ok = s.comments[id]
		delete(s.comments, id)
	}
	if !ok {
		return errors.NotFound("Not found")
	}
	return nil
}

func (s *Store) ListForums(ctx context.Context) ([]domain.ForumSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ForumSummary, 0, len(s.forums))
	for _, f := range s.forums {
		summary := domain.ForumSummary{Forum: f}
		for _, t := range s.threads {
			if t.ForumId == f.Id {
				summary.ThreadCount++
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return older(out[i].CreatedAt, out[i].Id, out[j].CreatedAt, out[j].Id) })
	return out, nil
}

func (s *Store) ListThreads(ctx context.Context, forumId domain.ContentId) ([]domain.ThreadSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ThreadSummary{}
	for _, t := range s.threads {
		if t.ForumId != forumId {
			continue
		}
		summary := domain.ThreadSummary{Thread: copyThread(t), WatcherCount: t.Watchers.Len()}
		for _, p := range s.posts {
			if p.ThreadId == t.Id {
				summary.PostCount++
			}
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return older(out[i].CreatedAt, out[i].Id, out[j].CreatedAt, out[j].Id) })
	return out, nil
}

func (s *Store) ListPosts(ctx context.Context, threadId domain.ContentId) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Post{}
	for _, p := range s.posts {
		if p.ThreadId == threadId {
			out = append(out, s.withCount(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return older(out[i].CreatedAt, out[i].Id, out[j].CreatedAt, out[j].Id) })
	return out, nil
}

func (s *Store) ListComments(ctx context.Context, postId domain.ContentId) ([]domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Comment{}
	for _, c := range s.comments {
		if c.PostId == postId {
			out = append(out, copyComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return older(out[i].CreatedAt, out[i].Id, out[j].CreatedAt, out[j].Id) })
	return out, nil
}

func older(at time.Time, id string, bt time.Time, bid string) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return id < bid
}

func (s *Store) GetReactions(ctx context.Context, kind domain.Kind, id domain.ContentId) (domain.ReactionTarget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch kind {
	case domain.KindPost:
		if p, ok := s.posts[id]; ok {
			return domain.ReactionTarget{Kind: kind, Id: id, OwnerId: p.OwnerId, Reactions: p.Reactions.Clone()}, nil
		}
		return domain.ReactionTarget{}, errors.NotFound("Post not found")
	case domain.KindComment:
		if c, ok := s.comments[id]; ok {
			return domain.ReactionTarget{Kind: kind, Id: id, OwnerId: c.OwnerId, Reactions: c.Reactions.Clone()}, nil
		}
		return domain.ReactionTarget{}, errors.NotFound("Comment not found")
	}
	return domain.ReactionTarget{}, errors.InvalidOperation("Only posts and comments have reactions")
}

func (s *Store) UpdateReactions(ctx context.Context, kind domain.Kind, id domain.ContentId, reactions domain.Reactions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case domain.KindPost:
		p, ok := s.posts[id]
		if !ok {
			return errors.NotFound("Post not found")
		}
		p.Reactions = reactions.Clone()
		s.posts[id] = p
		return nil
	case domain.KindComment:
		c, ok := s.comments[id]
		if !ok {
			return errors.NotFound("Comment not found")
		}
		c.Reactions = reactions.Clone()
		s.comments[id] = c
		return nil
	}
	return errors.InvalidOperation("Only posts and comments have reactions")
}

func (s *Store) ListReportedPosts(ctx context.Context) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Post{}
	for _, p := range s.posts {
		if p.ReportCount() > 0 {
			out = append(out, s.withCount(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReportCount() != out[j].ReportCount() {
			return out[i].ReportCount() > out[j].ReportCount()
		}
		return older(out[i].CreatedAt, out[i].Id, out[j].CreatedAt, out[j].Id)
	})
	return out, nil
}

func (s *Store) ListReportedComments(ctx context.Context) ([]domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Comment{}
	for _, c := range s.comments {
		if c.ReportCount() > 0 {
			out = append(out, copyComment(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ReportCount() != out[j].ReportCount() {
			return out[i].ReportCount() > out[j].ReportCount()
		}
		return older(out[i].CreatedAt, out[i].Id, out[j].CreatedAt, out[j].Id)
	})
	return out, nil
}

func (s *Store) UpdateThreadWatchers(ctx context.Context, id domain.ContentId, watchers domain.UserSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.threads[id]
	if !ok {
		return errors.NotFound("Thread not found")
	}
	t.Watchers = watchers.Clone()
	s.threads[id] = t
	return nil
}

func (s *Store) CreateNotification(ctx context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.Id] = copyNotification(n)
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id domain.ContentId) (domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	if !ok {
		return domain.Notification{}, errors.NotFound("Notification not found")
	}
	return copyNotification(n), nil
}

func (s *Store) UpdateNotificationSeenBy(ctx context.Context, id domain.ContentId, seenBy domain.UserSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return errors.NotFound("Notification not found")
	}
	n.SeenBy = seenBy.Clone()
	s.notifications[id] = n
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, user domain.UserId, limit int) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Notification{}
	for _, n := range s.notifications {
		if n.IsRecipient(user) {
			out = append(out, copyNotification(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return older(out[j].CreatedAt, out[j].Id, out[i].CreatedAt, out[i].Id) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) ListContentSources(ctx context.Context) ([]domain.ContentSource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.ContentSource
	for _, f := range s.forums {
		out = append(out, domain.ContentSource{Ref: f.Ref(), Text: f.EmbeddingText(), CreatedAt: f.CreatedAt})
	}
	for _, t := range s.threads {
		out = append(out, domain.ContentSource{Ref: t.Ref(), Text: t.EmbeddingText(), CreatedAt: t.CreatedAt})
	}
	for _, p := range s.posts {
		out = append(out, domain.ContentSource{Ref: p.Ref(), Text: p.EmbeddingText(), CreatedAt: p.CreatedAt})
	}
	for _, c := range s.comments {
		out = append(out, domain.ContentSource{Ref: c.Ref(), Text: c.EmbeddingText(), CreatedAt: c.CreatedAt})
	}
	return out, nil
}

// Count returns how many records of kind are stored.
func (s *Store) Count(kind domain.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case domain.KindForum:
		return len(s.forums)
	case domain.KindThread:
		return len(s.threads)
	case domain.KindPost:
		return len(s.posts)
	case domain.KindComment:
		return len(s.comments)
	}
	return 0
}

// Index is an exhaustive cosine similarity index.
type Index struct {
	mu      sync.RWMutex
	records map[domain.IndexId]domain.MirrorRecord
}

func NewIndex() *Index {
	return &Index{records: make(map[domain.IndexId]domain.MirrorRecord)}
}

func (i *Index) Ping(ctx context.Context) error {
	return nil
}

func (i *Index) Upsert(ctx context.Context, record domain.MirrorRecord) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	record.Embedding = slices.Clone(record.Embedding)
	i.records[record.IndexId] = record
	return nil
}

func (i *Index) Delete(ctx context.Context, indexId domain.IndexId) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.records, indexId)
	return nil
}

func (i *Index) Get(indexId domain.IndexId) (domain.MirrorRecord, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	r, ok := i.records[indexId]
	return r, ok
}

func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

func (i *Index) Search(ctx context.Context, embedding []float32, limit int) ([]domain.SearchHit, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	hits := make([]domain.SearchHit, 0, len(i.records))
	for _, r := range i.records {
		hits = append(hits, domain.SearchHit{IndexId: r.IndexId, Kind: r.Kind, DocId: r.DocId, Score: cosine(embedding, r.Embedding)})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].IndexId < hits[b].IndexId
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (i *Index) ListMirrors(ctx context.Context) ([]domain.MirrorRecord, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]domain.MirrorRecord, 0, len(i.records))
	for _, r := range i.records {
		r.Embedding = nil
		out = append(out, r)
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for k := range a {
		dot += float64(a[k]) * float64(b[k])
		na += float64(a[k]) * float64(a[k])
		nb += float64(b[k]) * float64(b[k])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
