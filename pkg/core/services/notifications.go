package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

// Inbox is the notifications a user can see, newest first
type Inbox struct {
	Notifications []model.Notification
	Unread        int
}

// visibleTo: notifications addressed to the user, plus role broadcasts for admins
func visibleTo(n model.Notification, user model.User) bool {
	if n.UserID != "" {
		return n.UserID == user.ID
	}
	return n.Role == model.RoleAdmin && user.Role == model.RoleAdmin
}

// ListNotifications returns the session user's inbox
func ListNotifications(ctx context.Context, store DocumentStore, session *Session) (*Inbox, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	inbox := &Inbox{Notifications: []model.Notification{}}
	for _, n := range doc.Notifications {
		if !visibleTo(n, session.User) {
			continue
		}
		inbox.Notifications = append(inbox.Notifications, n)
		if !n.Read {
			inbox.Unread++
		}
	}
	sort.SliceStable(inbox.Notifications, func(i, j int) bool {
		return inbox.Notifications[i].CreatedAt.After(inbox.Notifications[j].CreatedAt)
	})
	return inbox, nil
}

// MarkNotificationsRead marks the given visible notifications as read, or all
// visible ones when ids is empty. It returns how many changed.
func MarkNotificationsRead(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, ids []string) (int, error) {
	if err := requireSession(session); err != nil {
		return 0, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load document: %w", err)
	}

	match := idMatcher(ids)
	changed := 0
	for i := range doc.Notifications {
		n := &doc.Notifications[i]
		if n.Read || !visibleTo(*n, session.User) || !match(n.ID) {
			continue
		}
		n.Read = true
		changed++
	}
	if changed == 0 {
		return 0, nil
	}

	if err := store.Save(ctx, doc); err != nil {
		return 0, fmt.Errorf("failed to save document: %w", err)
	}
	logger.Debug("Marked notifications read", zap.Int("count", changed))
	return changed, nil
}

// DeleteNotifications removes the given visible notifications, or all
// visible ones when ids is empty. It returns how many were removed.
func DeleteNotifications(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, ids []string) (int, error) {
	if err := requireSession(session); err != nil {
		return 0, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load document: %w", err)
	}

	match := idMatcher(ids)
	kept := make([]model.Notification, 0, len(doc.Notifications))
	for _, n := range doc.Notifications {
		if visibleTo(n, session.User) && match(n.ID) {
			continue
		}
		kept = append(kept, n)
	}
	removed := len(doc.Notifications) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	doc.Notifications = kept

	if err := store.Save(ctx, doc); err != nil {
		return 0, fmt.Errorf("failed to save document: %w", err)
	}
	logger.Debug("Deleted notifications", zap.Int("count", removed))
	return removed, nil
}

func idMatcher(ids []string) func(string) bool {
	if len(ids) == 0 {
		return func(string) bool { return true }
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}
