package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"slices"
)

// ErrOAuthClientNotFound means no OAuth client file exists in any searched
// location. Google features are simply off in that case.
var ErrOAuthClientNotFound = errors.New("oauth client file not found")

// OAuthClientError reports an OAuth client file that exists but cannot drive
// the desktop consent flow used for Gmail and Sheets.
type OAuthClientError struct {
	Path   string
	Reason string
	Err    error
}

func (e *OAuthClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oauth client %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("oauth client %s: %s", e.Path, e.Reason)
}

func (e *OAuthClientError) Unwrap() error {
	return e.Err
}

// OAuthClientConfig is the client JSON downloaded from the Google Cloud
// console. Only "Desktop app" clients are accepted: the token flow redirects
// to a loopback address, which web clients do not allow.
type OAuthClientConfig struct {
	Installed *OAuthInstalled `json:"installed,omitempty"`
	Web       json.RawMessage `json:"web,omitempty"`
}

// OAuthInstalled is the "installed" section of a desktop client
type OAuthInstalled struct {
	ClientID     string   `json:"client_id" validate:"required,endswith=.apps.googleusercontent.com"`
	ProjectID    string   `json:"project_id,omitempty"`
	ClientSecret string   `json:"client_secret" validate:"required"`
	AuthURI      string   `json:"auth_uri" validate:"required,url"`
	TokenURI     string   `json:"token_uri" validate:"required,url"`
	RedirectURIs []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

func oauthClientFileName(env string) string {
	if env == "" {
		return "oauthClient.json"
	}
	return "oauthClient." + env + ".json"
}

// OAuthClientPaths lists where the client file is looked for, in order. An
// explicit oauthClientFile wins; otherwise the data directory is searched
// before the working and home directories.
func (c *Config) OAuthClientPaths(env string) []string {
	if c.OAuthClientFile != "" {
		return []string{c.OAuthClientFile}
	}

	name := oauthClientFileName(env)
	var paths []string
	if c.DataDir != "" {
		paths = append(paths, filepath.Join(c.DataDir, name))
	}
	paths = append(paths, name)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, name))
	}
	return paths
}

// LoadOAuthClient reads the first client file found for env. It returns an
// error wrapping ErrOAuthClientNotFound when there is none, and an
// *OAuthClientError when the file is unusable.
func LoadOAuthClient(cfg *Config, env string) (*OAuthClientConfig, error) {
	paths := cfg.OAuthClientPaths(env)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return ReadOAuthClient(path)
		}
	}
	return nil, fmt.Errorf("%w: searched %v", ErrOAuthClientNotFound, paths)
}

// ReadOAuthClient parses and checks a desktop client file
func ReadOAuthClient(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &OAuthClientError{Path: path, Reason: "unreadable", Err: err}
	}

	var client OAuthClientConfig
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, &OAuthClientError{Path: path, Reason: "not valid JSON", Err: err}
	}

	if err := client.check(); err != nil {
		var clientErr *OAuthClientError
		if errors.As(err, &clientErr) {
			clientErr.Path = path
		}
		return nil, err
	}
	return &client, nil
}

func (c *OAuthClientConfig) check() error {
	if c.Installed == nil {
		if len(c.Web) > 0 {
			return &OAuthClientError{Reason: "web application clients are not supported, create a Desktop app client"}
		}
		return &OAuthClientError{Reason: `missing "installed" section`}
	}

	if err := validate.Struct(c.Installed); err != nil {
		return &OAuthClientError{Reason: "validation failed", Err: err}
	}

	if !slices.ContainsFunc(c.Installed.RedirectURIs, isLoopback) {
		return &OAuthClientError{Reason: "no loopback redirect URI (http://localhost)"}
	}
	return nil
}

func isLoopback(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "http" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
