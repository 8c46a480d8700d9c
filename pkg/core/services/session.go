package services

import (
	"context"
	"fmt"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

// Session identifies the logged-in user. A nil *Session means nobody is
// logged in.
type Session struct {
	User model.User
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == model.RoleAdmin
}

func requireSession(s *Session) error {
	if s == nil {
		return ErrNotAuthenticated
	}
	return nil
}

func requireAdmin(s *Session) error {
	if err := requireSession(s); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// sessionUser is the copy of a user kept as the document's current user
func sessionUser(u model.User) *model.User {
	u.PasswordHash = ""
	return &u
}

// RestoreSession rebuilds the session from the document's current user,
// refreshed from the users list. It returns nil when nobody is logged in or
// the user no longer exists.
func RestoreSession(ctx context.Context, store DocumentStore) (*Session, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc.CurrentUser == nil {
		return nil, nil
	}

	user := findUser(doc, doc.CurrentUser.ID)
	if user == nil {
		return nil, nil
	}
	return &Session{User: *sessionUser(*user)}, nil
}
