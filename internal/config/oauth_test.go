package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const desktopClientJSON = `{
  "installed": {
    "client_id": "123.apps.googleusercontent.com",
    "project_id": "rs-eventos",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func writeClient(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestReadOAuthClient_DesktopClient(t *testing.T) {
	path := writeClient(t, t.TempDir(), "oauthClient.prod.json", desktopClientJSON)

	client, err := ReadOAuthClient(path)
	require.NoError(t, err)
	require.NotNil(t, client.Installed)
	assert.Equal(t, "123.apps.googleusercontent.com", client.Installed.ClientID)
	assert.Equal(t, []string{"http://localhost"}, client.Installed.RedirectURIs)
}

func TestReadOAuthClient_Unusable(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{
			name:   "web client",
			body:   `{"web": {"client_id": "123.apps.googleusercontent.com", "client_secret": "s"}}`,
			reason: "web application clients are not supported",
		},
		{
			name:   "no installed section",
			body:   `{}`,
			reason: `missing "installed" section`,
		},
		{
			name:   "not json",
			body:   `{"installed": {"client_id": "x" "client_secret": "y"}}`,
			reason: "not valid JSON",
		},
		{
			name:   "foreign client id",
			body:   `{"installed": {"client_id": "abc", "client_secret": "s", "auth_uri": "https://a.example", "token_uri": "https://t.example", "redirect_uris": ["http://localhost"]}}`,
			reason: "validation failed",
		},
		{
			name:   "no loopback redirect",
			body:   `{"installed": {"client_id": "1.apps.googleusercontent.com", "client_secret": "s", "auth_uri": "https://a.example", "token_uri": "https://t.example", "redirect_uris": ["urn:ietf:wg:oauth:2.0:oob", "https://rseventos.com/cb"]}}`,
			reason: "no loopback redirect URI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeClient(t, t.TempDir(), "client.json", tt.body)

			_, err := ReadOAuthClient(path)
			var clientErr *OAuthClientError
			require.ErrorAs(t, err, &clientErr)
			assert.Equal(t, path, clientErr.Path)
			assert.Contains(t, clientErr.Reason, tt.reason)
			assert.NotErrorIs(t, err, ErrOAuthClientNotFound)
		})
	}
}

func TestLoadOAuthClient_SearchOrder(t *testing.T) {
	dataDir := t.TempDir()
	workDir := t.TempDir()
	t.Chdir(workDir)
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.DataDir = dataDir

	_, err := LoadOAuthClient(cfg, "prod")
	assert.ErrorIs(t, err, ErrOAuthClientNotFound)

	// working directory is used when the data directory has none
	writeClient(t, workDir, "oauthClient.prod.json", desktopClientJSON)
	_, err = LoadOAuthClient(cfg, "prod")
	require.NoError(t, err)

	// data directory wins, so a broken client there is reported
	writeClient(t, dataDir, "oauthClient.prod.json", `{"web": {}}`)
	_, err = LoadOAuthClient(cfg, "prod")
	var clientErr *OAuthClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, filepath.Join(dataDir, "oauthClient.prod.json"), clientErr.Path)

	// an explicit file replaces the search entirely
	cfg.OAuthClientFile = filepath.Join(t.TempDir(), "missing.json")
	assert.Equal(t, []string{cfg.OAuthClientFile}, cfg.OAuthClientPaths("prod"))
	_, err = LoadOAuthClient(cfg, "prod")
	assert.ErrorIs(t, err, ErrOAuthClientNotFound)
}

func TestIsLoopback(t *testing.T) {
	assert.True(t, isLoopback("http://localhost"))
	assert.True(t, isLoopback("http://localhost:3000/oauth/callback"))
	assert.True(t, isLoopback("http://127.0.0.1:8080"))
	assert.True(t, isLoopback("http://[::1]"))
	assert.False(t, isLoopback("https://localhost"))
	assert.False(t, isLoopback("http://rseventos.com"))
	assert.False(t, isLoopback("urn:ietf:wg:oauth:2.0:oob"))
}

func TestLoadFromPath_OAuthClientEnvOverride(t *testing.T) {
	path := writeConfig(t, "storage: file\n")
	t.Setenv(EnvOAuthClient, "/etc/shiftboard/client.json")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "/etc/shiftboard/client.json", cfg.OAuthClientFile)
}
