package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	ThemeKey     = "rs_eventos_theme"
	RememberKey  = "rs_eventos_remember"
	ThemeDark    = "dark"
	ThemeLight   = "light"
	defaultTheme = ThemeDark
)

// Credentials are the login details kept when "remember me" is chosen.
// The password is stored as typed so the login form can be prefilled.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Prefs stores per-installation preferences next to the document
type Prefs struct {
	storage Storage
}

func NewPrefs(storage Storage) *Prefs {
	return &Prefs{storage: storage}
}

// Theme returns the saved theme, dark when none was saved
func (p *Prefs) Theme(ctx context.Context) (string, error) {
	var theme string
	found, err := p.get(ctx, ThemeKey, &theme)
	if err != nil {
		return "", err
	}
	if !found || (theme != ThemeDark && theme != ThemeLight) {
		return defaultTheme, nil
	}
	return theme, nil
}

func (p *Prefs) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("unknown theme %q (use %s or %s)", theme, ThemeDark, ThemeLight)
	}
	return p.put(ctx, ThemeKey, theme)
}

// RememberedCredentials returns nil when nothing is remembered
func (p *Prefs) RememberedCredentials(ctx context.Context) (*Credentials, error) {
	var creds Credentials
	found, err := p.get(ctx, RememberKey, &creds)
	if err != nil || !found {
		return nil, err
	}
	return &creds, nil
}

func (p *Prefs) RememberCredentials(ctx context.Context, email, password string) error {
	return p.put(ctx, RememberKey, Credentials{Email: email, Password: password})
}

func (p *Prefs) ForgetCredentials(ctx context.Context) error {
	if err := p.storage.Delete(ctx, RememberKey); err != nil {
		return fmt.Errorf("failed to forget credentials: %w", err)
	}
	return nil
}

func (p *Prefs) get(ctx context.Context, key string, out any) (bool, error) {
	data, err := p.storage.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (p *Prefs) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	err = p.storage.Update(ctx, key, func([]byte) ([]byte, error) {
		return data, nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
