package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

// ProfileUpdate holds the editable profile fields. Nil leaves a field as is.
type ProfileUpdate struct {
	Email *string
	Phone *string
}

// UpdateProfile changes the session user's email and/or phone
func UpdateProfile(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, update ProfileUpdate) (*Session, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	return modifyCurrentUser(ctx, store, logger, session, func(doc *model.Document, user *model.User) error {
		if update.Email != nil {
			email := normalizeEmail(*update.Email)
			if email == "" {
				return fmt.Errorf("email: %w", ErrMissingField)
			}
			if other := findUserByEmail(doc, email); other != nil && other.ID != user.ID {
				return ErrEmailInUse
			}
			user.Email = email
		}
		if update.Phone != nil {
			user.Phone = strings.TrimSpace(*update.Phone)
		}
		return nil
	})
}

// SetStatus changes the session user's presence status
func SetStatus(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, status model.UserStatus) (*Session, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return modifyCurrentUser(ctx, store, logger, session, func(_ *model.Document, user *model.User) error {
		user.Status = status
		return nil
	})
}

// modifyCurrentUser applies fn to the session user's record, keeps the
// document's current user in sync and returns the refreshed session
func modifyCurrentUser(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	fn func(doc *model.Document, user *model.User) error,
) (*Session, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	user := findUser(doc, session.User.ID)
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", session.User.ID, ErrNotFound)
	}

	if err := fn(doc, user); err != nil {
		return nil, err
	}
	if doc.CurrentUser != nil && doc.CurrentUser.ID == user.ID {
		doc.CurrentUser = sessionUser(*user)
	}

	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	logger.Info("Updated profile", zap.String("user_id", user.ID))
	return &Session{User: *sessionUser(*user)}, nil
}
