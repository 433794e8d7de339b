package domain

import (
	"strings"
	"time"
)

type Forum struct {
	Id          ContentId  `json:"id"`
	IndexId     IndexId    `json:"indexId"`
	Title       ForumTitle `json:"title"`
	Description string     `json:"description"`
	OwnerId     UserId     `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	EditedAt    *time.Time `json:"editedAt,omitempty"`
}

// ForumSummary is a forum as shown in the forum list.
type ForumSummary struct {
	Forum
	ThreadCount int `json:"threadCount"`
}

type Thread struct {
	Id          ContentId   `json:"id"`
	IndexId     IndexId     `json:"indexId"`
	ForumId     ContentId   `json:"forumId"`
	Title       ThreadTitle `json:"title"`
	Description string      `json:"description"`
	OwnerId     UserId      `json:"ownerId"`
	Watchers    UserSet     `json:"-"`
	CreatedAt   time.Time   `json:"createdAt"`
	EditedAt    *time.Time  `json:"editedAt,omitempty"`
}

// ThreadSummary is a thread as shown in a forum's thread list.
type ThreadSummary struct {
	Thread
	PostCount    int `json:"postCount"`
	WatcherCount int `json:"watcherCount"`
}

type Post struct {
	Id       ContentId   `json:"id"`
	IndexId  IndexId     `json:"indexId"`
	ThreadId ContentId   `json:"threadId"`
	Content  ContentText `json:"content"`
	OwnerId  UserId      `json:"ownerId"`
	Reactions
	// CommentsCount is derived from the live comments at read time.
	CommentsCount int        `json:"commentsCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	EditedAt      *time.Time `json:"editedAt,omitempty"`
}

type Comment struct {
	Id      ContentId   `json:"id"`
	IndexId IndexId     `json:"indexId"`
	PostId  ContentId   `json:"postId"`
	Content ContentText `json:"content"`
	OwnerId UserId      `json:"ownerId"`
	Reactions
	CreatedAt time.Time  `json:"createdAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

// Content is implemented by Forum, Thread, Post and Comment.
type Content interface {
	Ref() ContentRef
	Owner() UserId
	EmbeddingText() string
}

var (
	_ Content = Forum{}
	_ Content = Thread{}
	_ Content = Post{}
	_ Content = Comment{}
)

func (f Forum) Ref() ContentRef   { return ContentRef{Kind: KindForum, Id: f.Id, IndexId: f.IndexId} }
func (t Thread) Ref() ContentRef  { return ContentRef{Kind: KindThread, Id: t.Id, IndexId: t.IndexId} }
func (p Post) Ref() ContentRef    { return ContentRef{Kind: KindPost, Id: p.Id, IndexId: p.IndexId} }
func (c Comment) Ref() ContentRef { return ContentRef{Kind: KindComment, Id: c.Id, IndexId: c.IndexId} }

func (f Forum) Owner() UserId   { return f.OwnerId }
func (t Thread) Owner() UserId  { return t.OwnerId }
func (p Post) Owner() UserId    { return p.OwnerId }
func (c Comment) Owner() UserId { return c.OwnerId }

// EmbeddingText is the text mirrored into the vector index for a titled entity.
func EmbeddingText(title, description string) string {
	return strings.TrimSpace(title + "\n" + description)
}

func (f Forum) EmbeddingText() string   { return EmbeddingText(f.Title, f.Description) }
func (t Thread) EmbeddingText() string  { return EmbeddingText(t.Title, t.Description) }
func (p Post) EmbeddingText() string    { return p.Content }
func (c Comment) EmbeddingText() string { return c.Content }

// ContentCreationData describes a new forum, thread, post or comment.
// Title and Description apply to forums and threads, Content to posts and comments.
type ContentCreationData struct {
	Kind          Kind
	ParentId      ContentId
	ParentIndexId IndexId
	Author        User
	Title         string
	Description   string
	Content       string
}

// ContentEditData describes an edit. Empty fields keep their stored value.
type ContentEditData struct {
	Kind        Kind
	Id          ContentId
	IndexId     IndexId
	Actor       User
	Title       string
	Description string
	Content     string
}

// ContentSource is a document store record reduced to what the vector index needs.
type ContentSource struct {
	Ref       ContentRef
	Text      string
	CreatedAt time.Time
}
