package service

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/campusnet/campusnet/backend/internal/storage/memory"
	"github.com/campusnet/campusnet/shared/domain"
)

// --- Mocks ---

// faultyStore wraps the in-memory store and lets tests fail selected writes.
type faultyStore struct {
	*memory.Store

	createErr             error
	updateErr             error
	createNotificationErr error
	deleteContentFunc     func(kind domain.Kind, id domain.ContentId) error

	mu           sync.Mutex
	deletedOrder []domain.ContentId
}

func (s *faultyStore) CreateForum(ctx context.Context, f domain.Forum) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.Store.CreateForum(ctx, f)
}

func (s *faultyStore) CreateThread(ctx context.Context, t domain.Thread) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.Store.CreateThread(ctx, t)
}

func (s *faultyStore) CreatePost(ctx context.Context, p domain.Post) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.Store.CreatePost(ctx, p)
}

func (s *faultyStore) CreateComment(ctx context.Context, c domain.Comment) error {
	if s.createErr != nil {
		return s.createErr
	}
	return s.Store.CreateComment(ctx, c)
}

func (s *faultyStore) UpdatePost(ctx context.Context, p domain.Post) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Store.UpdatePost(ctx, p)
}

func (s *faultyStore) UpdateThread(ctx context.Context, t domain.Thread) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.Store.UpdateThread(ctx, t)
}

func (s *faultyStore) CreateNotification(ctx context.Context, n domain.Notification) error {
	if s.createNotificationErr != nil {
		return s.createNotificationErr
	}
	return s.Store.CreateNotification(ctx, n)
}

func (s *faultyStore) DeleteContent(ctx context.Context, kind domain.Kind, id domain.ContentId) error {
	if s.deleteContentFunc != nil {
		if err := s.deleteContentFunc(kind, id); err != nil {
			return err
		}
	}
	if err := s.Store.DeleteContent(ctx, kind, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.deletedOrder = append(s.deletedOrder, id)
	s.mu.Unlock()
	return nil
}

// mockIndex wraps the in-memory index and records calls.
type mockIndex struct {
	*memory.Index

	upsertFunc func(record domain.MirrorRecord) error
	deleteFunc func(indexId domain.IndexId) error
	searchFunc func(embedding []float32, limit int) ([]domain.SearchHit, error)

	mu          sync.Mutex
	upsertCalls int
	deleteCalls []domain.IndexId
}

func (m *mockIndex) Upsert(ctx context.Context, record domain.MirrorRecord) error {
	m.mu.Lock()
	m.upsertCalls++
	m.mu.Unlock()
	if m.upsertFunc != nil {
		if err := m.upsertFunc(record); err != nil {
			return err
		}
	}
	return m.Index.Upsert(ctx, record)
}

func (m *mockIndex) Delete(ctx context.Context, indexId domain.IndexId) error {
	m.mu.Lock()
	m.deleteCalls = append(m.deleteCalls, indexId)
	m.mu.Unlock()
	if m.deleteFunc != nil {
		if err := m.deleteFunc(indexId); err != nil {
			return err
		}
	}
	return m.Index.Delete(ctx, indexId)
}

func (m *mockIndex) Search(ctx context.Context, embedding []float32, limit int) ([]domain.SearchHit, error) {
	if m.searchFunc != nil {
		return m.searchFunc(embedding, limit)
	}
	return m.Index.Search(ctx, embedding, limit)
}

func (m *mockIndex) upserts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upsertCalls
}

// mockEmbedder hashes words into a small bag-of-words vector by default.
type mockEmbedder struct {
	embedFunc func(text string) ([]float32, error)

	mu    sync.Mutex
	calls int
}

const testDimensions = 32

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedFunc != nil {
		return m.embedFunc(text)
	}
	return bagOfWords(text), nil
}

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func bagOfWords(text string) []float32 {
	vec := make([]float32, testDimensions)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(w, ".,!?")))
		vec[h.Sum32()%testDimensions]++
	}
	return vec
}

type notifyCall struct {
	event    domain.ContentEvent
	threadId domain.ContentId
	postId   domain.ContentId
	actor    domain.UserId
}

type mockNotifier struct {
	notifyFunc func(event domain.ContentEvent, threadId, postId domain.ContentId, actor domain.UserId) error

	mu    sync.Mutex
	calls []notifyCall
}

func (m *mockNotifier) Notify(ctx context.Context, event domain.ContentEvent, threadId, postId domain.ContentId, actor domain.UserId) error {
	m.mu.Lock()
	m.calls = append(m.calls, notifyCall{event: event, threadId: threadId, postId: postId, actor: actor})
	m.mu.Unlock()
	if m.notifyFunc != nil {
		return m.notifyFunc(event, threadId, postId, actor)
	}
	return nil
}

type mockValidator struct {
	titleFunc       func(string) error
	descriptionFunc func(string) error
	textFunc        func(string) error
}

func (m *mockValidator) Title(title string) error {
	if m.titleFunc != nil {
		return m.titleFunc(title)
	}
	return nil
}

func (m *mockValidator) Description(description string) error {
	if m.descriptionFunc != nil {
		return m.descriptionFunc(description)
	}
	return nil
}

func (m *mockValidator) Text(text string) error {
	if m.textFunc != nil {
		return m.textFunc(text)
	}
	return nil
}

// --- Helpers ---

var (
	admin = domain.User{Id: 1, Email: "admin@campus.edu", Admin: true}
	alice = domain.User{Id: 2, Email: "alice@campus.edu"}
	bob   = domain.User{Id: 3, Email: "bob@campus.edu"}
	carol = domain.User{Id: 4, Email: "carol@campus.edu"}
)

type testEnv struct {
	store         *faultyStore
	index         *mockIndex
	embedder      *mockEmbedder
	validator     *mockValidator
	mirror        *Mirror
	notifications *Notifications
	content       *Content
	moderation    *Moderation
	search        *Search
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     &faultyStore{Store: memory.New()},
		index:     &mockIndex{Index: memory.NewIndex()},
		embedder:  &mockEmbedder{},
		validator: &mockValidator{},
	}
	env.mirror = NewMirror(env.index, env.embedder)
	env.notifications = NewNotifications(env.store, 50, time.Second)
	env.content = NewContent(env.store, env.mirror, env.notifications, env.validator, time.Second)
	env.moderation = NewModeration(env.store, time.Second)
	env.search = NewSearch(env.store, env.index, env.embedder, 10, time.Second)
	return env
}

func (e *testEnv) create(t *testing.T, kind domain.Kind, parent domain.ContentId, author domain.User, title, text string) domain.Content {
	t.Helper()
	data := domain.ContentCreationData{Kind: kind, ParentId: parent, Author: author}
	switch kind {
	case domain.KindForum, domain.KindThread:
		data.Title, data.Description = title, text
	default:
		data.Content = text
	}
	created, res, err := e.content.Create(context.Background(), data)
	if err != nil {
		t.Fatalf("create %s: %v", kind, err)
	}
	if res.Degraded() {
		t.Fatalf("create %s degraded: %s", kind, res.Warning())
	}
	return created
}

// tree builds forum -> thread -> 2 posts -> 2 comments each.
type tree struct {
	forum    domain.Forum
	thread   domain.Thread
	posts    []domain.Post
	comments []domain.Comment
}

func (e *testEnv) buildTree(t *testing.T) tree {
	t.Helper()
	var tr tree
	tr.forum = e.create(t, domain.KindForum, "", admin, "Exams", "Exam schedules and prep").(domain.Forum)
	tr.thread = e.create(t, domain.KindThread, tr.forum.Id, alice, "Calculus final", "When is the calculus final").(domain.Thread)
	for i := 0; i < 2; i++ {
		p := e.create(t, domain.KindPost, tr.thread.Id, bob, "", "The final is on Friday morning").(domain.Post)
		tr.posts = append(tr.posts, p)
		for j := 0; j < 2; j++ {
			c := e.create(t, domain.KindComment, p.Id, carol, "", "Thanks for the heads up").(domain.Comment)
			tr.comments = append(tr.comments, c)
		}
	}
	return tr
}
