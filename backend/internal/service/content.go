package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
	"github.com/google/uuid"
)

type ContentService interface {
	Create(ctx context.Context, data domain.ContentCreationData) (domain.Content, WriteResult, error)
	Edit(ctx context.Context, data domain.ContentEditData) (domain.Content, WriteResult, error)
	Delete(ctx context.Context, ref domain.ContentRef, actor domain.User) (DeleteResult, error)

	ListForums(ctx context.Context) ([]domain.ForumSummary, error)
	ListThreads(ctx context.Context, forumId domain.ContentId) (domain.Forum, []domain.ThreadSummary, error)
	ListPosts(ctx context.Context, threadId domain.ContentId) (domain.Thread, []domain.Post, error)
	ListComments(ctx context.Context, postId domain.ContentId) (domain.Post, []domain.Comment, error)
}

// ContentReader resolves single entities. Missing entities are reported
// with a 404 ErrorWithStatusCode.
type ContentReader interface {
	GetForum(ctx context.Context, id domain.ContentId) (domain.Forum, error)
	GetThread(ctx context.Context, id domain.ContentId) (domain.Thread, error)
	GetPost(ctx context.Context, id domain.ContentId) (domain.Post, error)
	GetComment(ctx context.Context, id domain.ContentId) (domain.Comment, error)
}

type ContentStorage interface {
	ContentReader

	CreateForum(ctx context.Context, forum domain.Forum) error
	CreateThread(ctx context.Context, thread domain.Thread) error
	CreatePost(ctx context.Context, post domain.Post) error
	CreateComment(ctx context.Context, comment domain.Comment) error

	// Update methods write the editable text fields and EditedAt only,
	// never moderation sets or watchers.
	UpdateForum(ctx context.Context, forum domain.Forum) error
	UpdateThread(ctx context.Context, thread domain.Thread) error
	UpdatePost(ctx context.Context, post domain.Post) error
	UpdateComment(ctx context.Context, comment domain.Comment) error

	// ChildRefs lists the direct children of the given entity.
	ChildRefs(ctx context.Context, kind domain.Kind, id domain.ContentId) ([]domain.ContentRef, error)
	DeleteContent(ctx context.Context, kind domain.Kind, id domain.ContentId) error

	ListForums(ctx context.Context) ([]domain.ForumSummary, error)
	ListThreads(ctx context.Context, forumId domain.ContentId) ([]domain.ThreadSummary, error)
	ListPosts(ctx context.Context, threadId domain.ContentId) ([]domain.Post, error)
	ListComments(ctx context.Context, postId domain.ContentId) ([]domain.Comment, error)
}

type ContentValidator interface {
	Title(title string) error
	Description(description string) error
	Text(text string) error
}

// Notifier fans a content event out to the watchers of a thread.
type Notifier interface {
	Notify(ctx context.Context, event domain.ContentEvent, threadId, postId domain.ContentId, actor domain.UserId) error
}

type Content struct {
	storage   ContentStorage
	mirror    *Mirror
	notifier  Notifier
	validator ContentValidator
	timeout   time.Duration
	now       func() time.Time
	newId     func() string
	log       *slog.Logger
}

// NewContent builds the content engine. timeout bounds every storage call
// made on behalf of a request.
func NewContent(storage ContentStorage, mirror *Mirror, notifier Notifier, validator ContentValidator, timeout time.Duration) *Content {
	return &Content{
		storage:   storage,
		mirror:    mirror,
		notifier:  notifier,
		validator: validator,
		timeout:   timeout,
		now:       time.Now,
		newId:     uuid.NewString,
		log:       logger.Component("content"),
	}
}

var _ ContentService = (*Content)(nil)

func (s *Content) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create inserts a new entity under an existing parent, mirrors it into
// the vector index and notifies thread watchers for posts and comments.
func (s *Content) Create(ctx context.Context, data domain.ContentCreationData) (domain.Content, WriteResult, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()

	if data.Author.Id == 0 {
		return nil, WriteResult{}, errors.Unauthorized("Please sign-in")
	}
	if err := s.validateCreation(data); err != nil {
		return nil, WriteResult{}, err
	}

	var parent domain.Content
	if parentKind, ok := data.Kind.Parent(); ok {
		p, err := lookup(ctx, s.storage, parentKind, data.ParentId)
		if err != nil {
			return nil, WriteResult{}, err
		}
		if data.ParentIndexId != "" && p.Ref().IndexId != data.ParentIndexId {
			return nil, WriteResult{}, notFound(parentKind)
		}
		parent = p
	} else if !data.Author.Admin {
		return nil, WriteResult{}, errors.Forbidden("Only admins can create forums")
	}

	created, insert := s.build(data)
	ref := created.Ref()
	res := writeThenMirror(ctx, insert, func(ctx context.Context) error {
		return s.mirror.Sync(ctx, ref, created.EmbeddingText())
	})
	if res.Primary != nil {
		s.log.Error("create failed", "operation", "create", "kind", data.Kind, "actor", data.Author.Id, "error", res.Primary)
		return nil, res, res.Primary
	}

	switch c := created.(type) {
	case domain.Post:
		res.Notify = s.notifier.Notify(ctx, domain.EventPostCreated, c.ThreadId, c.Id, data.Author.Id)
	case domain.Comment:
		post := parent.(domain.Post)
		res.Notify = s.notifier.Notify(ctx, domain.EventCommentCreated, post.ThreadId, post.Id, data.Author.Id)
	}
	if res.Notify != nil {
		s.log.Warn("notification fan-out failed", "ref", ref.String(), "actor", data.Author.Id, "error", res.Notify)
	}

	s.log.Info("content created", "ref", ref.String(), "actor", data.Author.Id, "degraded", res.Degraded())
	return created, res, nil
}

func (s *Content) validateCreation(data domain.ContentCreationData) error {
	switch data.Kind {
	case domain.KindForum, domain.KindThread:
		if err := s.validator.Title(data.Title); err != nil {
			return err
		}
		return s.validator.Description(data.Description)
	case domain.KindPost, domain.KindComment:
		return s.validator.Text(data.Content)
	}
	return errors.InvalidOperation("Unknown content kind")
}

// build assigns ids and timestamps and returns the entity with its insert.
func (s *Content) build(data domain.ContentCreationData) (domain.Content, func(context.Context) error) {
	id, indexId, now := s.newId(), s.newId(), s.timestamp()

	switch data.Kind {
	case domain.KindForum:
		f := domain.Forum{Id: id, IndexId: indexId, Title: data.Title, Description: data.Description, OwnerId: data.Author.Id, CreatedAt: now}
		return f, func(ctx context.Context) error { return s.storage.CreateForum(ctx, f) }
	case domain.KindThread:
		t := domain.Thread{Id: id, IndexId: indexId, ForumId: data.ParentId, Title: data.Title, Description: data.Description,
			OwnerId: data.Author.Id, Watchers: domain.NewUserSet(), CreatedAt: now}
		return t, func(ctx context.Context) error { return s.storage.CreateThread(ctx, t) }
	case domain.KindPost:
		p := domain.Post{Id: id, IndexId: indexId, ThreadId: data.ParentId, Content: data.Content, OwnerId: data.Author.Id,
			Reactions: domain.NewReactions(), CreatedAt: now}
		return p, func(ctx context.Context) error { return s.storage.CreatePost(ctx, p) }
	default:
		c := domain.Comment{Id: id, IndexId: indexId, PostId: data.ParentId, Content: data.Content, OwnerId: data.Author.Id,
			Reactions: domain.NewReactions(), CreatedAt: now}
		return c, func(ctx context.Context) error { return s.storage.CreateComment(ctx, c) }
	}
}

// Edit updates the text of an entity owned by the actor (or any entity for
// admins) and overwrites its mirror, which also repairs a missing one.
func (s *Content) Edit(ctx context.Context, data domain.ContentEditData) (domain.Content, WriteResult, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()

	current, err := lookup(ctx, s.storage, data.Kind, data.Id)
	if err != nil {
		return nil, WriteResult{}, err
	}
	if data.IndexId != "" && current.Ref().IndexId != data.IndexId {
		return nil, WriteResult{}, notFound(data.Kind)
	}
	if !data.Actor.CanModify(current.Owner()) {
		return nil, WriteResult{}, errors.Forbidden("You can only edit your own content")
	}

	edited, update, err := s.applyEdit(current, data)
	if err != nil {
		return nil, WriteResult{}, err
	}

	ref := edited.Ref()
	res := writeThenMirror(ctx, update, func(ctx context.Context) error {
		return s.mirror.Sync(ctx, ref, edited.EmbeddingText())
	})
	if res.Primary != nil {
		s.log.Error("edit failed", "operation", "edit", "ref", ref.String(), "actor", data.Actor.Id, "error", res.Primary)
		return nil, res, res.Primary
	}

	s.log.Info("content edited", "ref", ref.String(), "actor", data.Actor.Id, "degraded", res.Degraded())
	return edited, res, nil
}

func (s *Content) applyEdit(current domain.Content, data domain.ContentEditData) (domain.Content, func(context.Context) error, error) {
	now := s.timestamp()

	switch c := current.(type) {
	case domain.Forum:
		if err := s.editTitled(&c.Title, &c.Description, data); err != nil {
			return nil, nil, err
		}
		c.EditedAt = &now
		return c, func(ctx context.Context) error { return s.storage.UpdateForum(ctx, c) }, nil
	case domain.Thread:
		if err := s.editTitled(&c.Title, &c.Description, data); err != nil {
			return nil, nil, err
		}
		c.EditedAt = &now
		return c, func(ctx context.Context) error { return s.storage.UpdateThread(ctx, c) }, nil
	case domain.Post:
		if err := s.editText(&c.Content, data); err != nil {
			return nil, nil, err
		}
		c.EditedAt = &now
		return c, func(ctx context.Context) error { return s.storage.UpdatePost(ctx, c) }, nil
	case domain.Comment:
		if err := s.editText(&c.Content, data); err != nil {
			return nil, nil, err
		}
		c.EditedAt = &now
		return c, func(ctx context.Context) error { return s.storage.UpdateComment(ctx, c) }, nil
	}
	return nil, nil, errors.InvalidOperation("Unknown content kind")
}

func (s *Content) editTitled(title, description *string, data domain.ContentEditData) error {
	if data.Title != "" {
		if err := s.validator.Title(data.Title); err != nil {
			return err
		}
		*title = data.Title
	}
	if data.Description != "" {
		if err := s.validator.Description(data.Description); err != nil {
			return err
		}
		*description = data.Description
	}
	return nil
}

func (s *Content) editText(content *string, data domain.ContentEditData) error {
	if data.Content == "" {
		return nil
	}
	if err := s.validator.Text(data.Content); err != nil {
		return err
	}
	*content = data.Content
	return nil
}

func (s *Content) ListForums(ctx context.Context) ([]domain.ForumSummary, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()
	return s.storage.ListForums(ctx)
}

func (s *Content) ListThreads(ctx context.Context, forumId domain.ContentId) (domain.Forum, []domain.ThreadSummary, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()

	forum, err := s.storage.GetForum(ctx, forumId)
	if err != nil {
		return domain.Forum{}, nil, err
	}
	threads, err := s.storage.ListThreads(ctx, forumId)
	if err != nil {
		return domain.Forum{}, nil, err
	}
	return forum, threads, nil
}

// ListPosts returns the thread header and its posts, oldest first.
func (s *Content) ListPosts(ctx context.Context, threadId domain.ContentId) (domain.Thread, []domain.Post, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()

	thread, err := s.storage.GetThread(ctx, threadId)
	if err != nil {
		return domain.Thread{}, nil, err
	}
	posts, err := s.storage.ListPosts(ctx, threadId)
	if err != nil {
		return domain.Thread{}, nil, err
	}
	return thread, posts, nil
}

func (s *Content) ListComments(ctx context.Context, postId domain.ContentId) (domain.Post, []domain.Comment, error) {
	ctx, cancel := detach(ctx, s.timeout)
	defer cancel()

	post, err := s.storage.GetPost(ctx, postId)
	if err != nil {
		return domain.Post{}, nil, err
	}
	comments, err := s.storage.ListComments(ctx, postId)
	if err != nil {
		return domain.Post{}, nil, err
	}
	return post, comments, nil
}

// lookup resolves an entity of any kind.
func lookup(ctx context.Context, r ContentReader, kind domain.Kind, id domain.ContentId) (domain.Content, error) {
	switch kind {
	case domain.KindForum:
		return unwrap(r.GetForum(ctx, id))
	case domain.KindThread:
		return unwrap(r.GetThread(ctx, id))
	case domain.KindPost:
		return unwrap(r.GetPost(ctx, id))
	case domain.KindComment:
		return unwrap(r.GetComment(ctx, id))
	}
	return nil, errors.InvalidOperation("Unknown content kind")
}

// unwrap keeps a failed lookup from returning a non-nil zero entity.
func unwrap[T domain.Content](v T, err error) (domain.Content, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func notFound(kind domain.Kind) error {
	switch kind {
	case domain.KindForum:
		return errors.NotFound("Forum not found")
	case domain.KindThread:
		return errors.NotFound("Thread not found")
	case domain.KindPost:
		return errors.NotFound("Post not found")
	case domain.KindComment:
		return errors.NotFound("Comment not found")
	}
	return errors.NotFound("Not found")
}
