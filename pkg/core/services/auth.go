package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/utils"
)

// MinPasswordLength applies to password resets
const MinPasswordLength = 3

// Login checks the credentials, persists the user as the current session user
// and updates the remembered credentials. creds may be nil.
func Login(
	ctx context.Context,
	store DocumentStore,
	creds CredentialStore,
	logger *zap.Logger,
	email, password string,
	rememberMe bool,
) (*Session, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("fill in every field to log in: %w", ErrMissingField)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	user := findUserByEmail(doc, email)
	if user == nil || !utils.CheckPassword(user.PasswordHash, password) {
		logger.Info("Rejected login", zap.String("email", normalizeEmail(email)))
		return nil, ErrInvalidCredentials
	}

	doc.CurrentUser = sessionUser(*user)
	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if creds != nil {
		if rememberMe {
			err = creds.RememberCredentials(ctx, email, password)
		} else {
			err = creds.ForgetCredentials(ctx)
		}
		if err != nil {
			logger.Warn("Failed to update remembered credentials", zap.Error(err))
		}
	}

	logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &Session{User: *doc.CurrentUser}, nil
}

// Logout clears the persisted session user
func Logout(ctx context.Context, store DocumentStore, logger *zap.Logger) error {
	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc.CurrentUser == nil {
		return nil
	}

	userID := doc.CurrentUser.ID
	doc.CurrentUser = nil
	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("User logged out", zap.String("user_id", userID))
	return nil
}

// VerifyAdminPasscode gates the administrator signup path
func VerifyAdminPasscode(passcode, expected string) error {
	if expected == "" || subtle.ConstantTimeCompare([]byte(passcode), []byte(expected)) != 1 {
		return ErrAdminAccessDenied
	}
	return nil
}

// SignupInput holds the signup form. Role defaults to lead; choosing admin
// requires Passcode to match the configured admin passcode.
type SignupInput struct {
	Name       string
	Email      string
	Password   string
	Role       model.Role
	Passcode   string
	RememberMe bool
}

// Signup creates a user and logs them in
func Signup(
	ctx context.Context,
	store DocumentStore,
	creds CredentialStore,
	adminPasscode string,
	logger *zap.Logger,
	input SignupInput,
	now time.Time,
) (*Session, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, fmt.Errorf("fill in every signup field: %w", ErrMissingField)
	}

	role := input.Role
	if role == "" {
		role = model.RoleLead
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if role == model.RoleAdmin {
		if err := VerifyAdminPasscode(input.Passcode, adminPasscode); err != nil {
			logger.Warn("Rejected admin signup", zap.String("email", normalizeEmail(input.Email)))
			return nil, err
		}
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	if findUserByEmail(doc, input.Email) != nil {
		return nil, ErrEmailInUse
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		ID:           newID(),
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now.UTC(),
		Status:       model.StatusOnline,
	}
	doc.Users = append(doc.Users, user)
	doc.CurrentUser = sessionUser(user)

	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	if creds != nil && input.RememberMe {
		if err := creds.RememberCredentials(ctx, input.Email, input.Password); err != nil {
			logger.Warn("Failed to remember credentials", zap.Error(err))
		}
	}

	logger.Info("User signed up", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return &Session{User: *doc.CurrentUser}, nil
}

// ResetPassword overwrites the password of the user with the given email
func ResetPassword(ctx context.Context, store DocumentStore, logger *zap.Logger, email, newPassword string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("enter the email and the new password: %w", ErrMissingField)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	user := findUserByEmail(doc, email)
	if user == nil {
		return ErrEmailNotFound
	}
	if len([]rune(newPassword)) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save password: %w", err)
	}

	logger.Info("Password reset", zap.String("user_id", user.ID))
	return nil
}
