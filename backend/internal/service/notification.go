package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/logger"
	"github.com/google/uuid"
)

type NotificationService interface {
	Notifier

	ToggleWatch(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error)
	Watch(ctx context.Context, threadId domain.ContentId, user domain.UserId) error
	Unwatch(ctx context.Context, threadId domain.ContentId, user domain.UserId) error
	IsWatching(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error)

	List(ctx context.Context, user domain.UserId) ([]domain.UserNotification, error)
	MarkRead(ctx context.Context, id domain.ContentId, user domain.UserId) error
}

type NotificationStorage interface {
	GetThread(ctx context.Context, id domain.ContentId) (domain.Thread, error)
	UpdateThreadWatchers(ctx context.Context, id domain.ContentId, watchers domain.UserSet) error

	CreateNotification(ctx context.Context, n domain.Notification) error
	GetNotification(ctx context.Context, id domain.ContentId) (domain.Notification, error)
	UpdateNotificationSeenBy(ctx context.Context, id domain.ContentId, seenBy domain.UserSet) error
	// ListNotifications returns notifications addressed to user, newest first.
	ListNotifications(ctx context.Context, user domain.UserId, limit int) ([]domain.Notification, error)
}

type Notifications struct {
	storage NotificationStorage
	limit   int
	timeout time.Duration
	now     func() time.Time
	log     *slog.Logger
}

func NewNotifications(storage NotificationStorage, limit int, timeout time.Duration) *Notifications {
	return &Notifications{
		storage: storage,
		limit:   limit,
		timeout: timeout,
		now:     time.Now,
		log:     logger.Component("notifications"),
	}
}

var _ NotificationService = (*Notifications)(nil)

// Notify writes one notification shared by every watcher of the thread
// except actor. Nothing is written when nobody else watches.
func (n *Notifications) Notify(ctx context.Context, event domain.ContentEvent, threadId, postId domain.ContentId, actor domain.UserId) error {
	ctx, cancel := detach(ctx, n.timeout)
	defer cancel()

	thread, err := n.storage.GetThread(ctx, threadId)
	if err != nil {
		return err
	}

	recipients := thread.Watchers.Clone()
	recipients.Remove(actor)
	if recipients.Len() == 0 {
		return nil
	}

	notification := domain.Notification{
		Id:         uuid.NewString(),
		CreatedBy:  actor,
		ThreadId:   threadId,
		PostId:     postId,
		Message:    message(event, thread.Title),
		Recipients: recipients,
		SeenBy:     domain.NewUserSet(),
		CreatedAt:  n.now().UTC().Truncate(time.Microsecond),
	}
	if err := n.storage.CreateNotification(ctx, notification); err != nil {
		return err
	}

	notificationsCreated.WithLabelValues(string(event)).Inc()
	n.log.Debug("notification created", "event", event, "thread", threadId, "actor", actor, "recipients", recipients.Len())
	return nil
}

func message(event domain.ContentEvent, threadTitle string) string {
	switch event {
	case domain.EventPostCreated:
		return fmt.Sprintf("New post in %q", threadTitle)
	case domain.EventCommentCreated:
		return fmt.Sprintf("New comment on a post in %q", threadTitle)
	}
	return fmt.Sprintf("New activity in %q", threadTitle)
}

// ToggleWatch flips the caller's watch and returns whether they now watch.
func (n *Notifications) ToggleWatch(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error) {
	var watching bool
	err := n.updateWatchers(ctx, threadId, func(w domain.UserSet) bool {
		watching = w.Toggle(user)
		return true
	})
	return watching, err
}

func (n *Notifications) Watch(ctx context.Context, threadId domain.ContentId, user domain.UserId) error {
	return n.updateWatchers(ctx, threadId, func(w domain.UserSet) bool { return w.Add(user) })
}

func (n *Notifications) Unwatch(ctx context.Context, threadId domain.ContentId, user domain.UserId) error {
	return n.updateWatchers(ctx, threadId, func(w domain.UserSet) bool { return w.Remove(user) })
}

// updateWatchers persists the watcher set only when change reports a change.
func (n *Notifications) updateWatchers(ctx context.Context, threadId domain.ContentId, change func(domain.UserSet) bool) error {
	ctx, cancel := detach(ctx, n.timeout)
	defer cancel()

	thread, err := n.storage.GetThread(ctx, threadId)
	if err != nil {
		return err
	}
	watchers := thread.Watchers.Clone()
	if !change(watchers) {
		return nil
	}
	return n.storage.UpdateThreadWatchers(ctx, threadId, watchers)
}

func (n *Notifications) IsWatching(ctx context.Context, threadId domain.ContentId, user domain.UserId) (bool, error) {
	ctx, cancel := detach(ctx, n.timeout)
	defer cancel()

	thread, err := n.storage.GetThread(ctx, threadId)
	if err != nil {
		return false, err
	}
	return thread.Watchers.Has(user), nil
}

// List returns the user's notifications with their own read state.
func (n *Notifications) List(ctx context.Context, user domain.UserId) ([]domain.UserNotification, error) {
	ctx, cancel := detach(ctx, n.timeout)
	defer cancel()

	records, err := n.storage.ListNotifications(ctx, user, n.limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserNotification, 0, len(records))
	for _, r := range records {
		out = append(out, domain.UserNotification{Notification: r, Seen: r.SeenByUser(user)})
	}
	return out, nil
}

// MarkRead adds user to the notification's seenBy set. Other recipients
// are unaffected. Notifications not addressed to user are reported missing.
func (n *Notifications) MarkRead(ctx context.Context, id domain.ContentId, user domain.UserId) error {
	ctx, cancel := detach(ctx, n.timeout)
	defer cancel()

	notification, err := n.storage.GetNotification(ctx, id)
	if err != nil {
		return err
	}
	if !notification.IsRecipient(user) {
		return errors.NotFound("Notification not found")
	}

	seenBy := notification.SeenBy.Clone()
	if !seenBy.Add(user) {
		return nil
	}
	return n.storage.UpdateNotificationSeenBy(ctx, id, seenBy)
}
