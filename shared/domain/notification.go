package domain

import "time"

// Notification is shared by all of its recipients. Read state is tracked
// per recipient in SeenBy.
type Notification struct {
	Id         ContentId `json:"id"`
	CreatedBy  UserId    `json:"createdBy"`
	ThreadId   ContentId `json:"threadId"`
	PostId     ContentId `json:"postId,omitempty"`
	Message    string    `json:"message"`
	Recipients UserSet   `json:"-"`
	SeenBy     UserSet   `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (n Notification) SeenByUser(user UserId) bool {
	return n.SeenBy.Has(user)
}

func (n Notification) IsRecipient(user UserId) bool {
	return n.Recipients.Has(user)
}

// UserNotification is a notification as seen by one recipient.
type UserNotification struct {
	Notification
	Seen bool `json:"seen"`
}

// ContentEvent is a content mutation that may notify thread watchers.
type ContentEvent string

const (
	EventPostCreated    ContentEvent = "post_created"
	EventCommentCreated ContentEvent = "comment_created"
)
