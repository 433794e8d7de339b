package domain

import "fmt"

type (
	UserId = int64

	// ContentId identifies a record in the document store.
	ContentId = string
	// IndexId identifies the mirrored record of a content entity in the vector index.
	IndexId = string

	ForumTitle = string
	ThreadTitle = string
	ContentText = string
)

// Kind is the level of a content entity in the forum -> thread -> post -> comment tree.
type Kind string

const (
	KindForum   Kind = "forum"
	KindThread  Kind = "thread"
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Kinds lists every content kind from the root of the tree down.
var Kinds = []Kind{KindForum, KindThread, KindPost, KindComment}

func (k Kind) Valid() bool {
	switch k {
	case KindForum, KindThread, KindPost, KindComment:
		return true
	}
	return false
}

// Parent returns the kind that contains k. Forums have no parent.
func (k Kind) Parent() (Kind, bool) {
	switch k {
	case KindThread:
		return KindForum, true
	case KindPost:
		return KindThread, true
	case KindComment:
		return KindPost, true
	}
	return "", false
}

// Child returns the kind contained by k. Comments have no children.
func (k Kind) Child() (Kind, bool) {
	switch k {
	case KindForum:
		return KindThread, true
	case KindThread:
		return KindPost, true
	case KindPost:
		return KindComment, true
	}
	return "", false
}

// Reactable reports whether likes, dislikes and reports apply to k.
func (k Kind) Reactable() bool {
	return k == KindPost || k == KindComment
}

// ContentRef is the cross-store identifier pair of a content entity.
type ContentRef struct {
	Kind    Kind
	Id      ContentId
	IndexId IndexId
}

func (r ContentRef) String() string {
	return fmt.Sprintf("%s:%s/%s", r.Kind, r.Id, r.IndexId)
}
