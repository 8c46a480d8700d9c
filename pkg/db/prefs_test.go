package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefs_Theme(t *testing.T) {
	ctx := context.Background()
	prefs := NewPrefs(NewMemoryStorage())

	theme, err := prefs.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, theme)

	require.NoError(t, prefs.SetTheme(ctx, ThemeLight))
	theme, err = prefs.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, theme)

	assert.Error(t, prefs.SetTheme(ctx, "sepia"))
}

func TestPrefs_RememberedCredentials(t *testing.T) {
	ctx := context.Background()
	prefs := NewPrefs(NewMemoryStorage())

	creds, err := prefs.RememberedCredentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, prefs.RememberCredentials(ctx, "lead@rseventos.com", "abc"))
	creds, err = prefs.RememberedCredentials(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, Credentials{Email: "lead@rseventos.com", Password: "abc"}, *creds)

	require.NoError(t, prefs.ForgetCredentials(ctx))
	creds, err = prefs.RememberedCredentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestPrefs_CorruptValue(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Update(ctx, RememberKey, func([]byte) ([]byte, error) {
		return []byte("{not json"), nil
	}))

	_, err := NewPrefs(storage).RememberedCredentials(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), RememberKey)
}
