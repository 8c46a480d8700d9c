package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Environment variables that override values from the config file
const (
	EnvDatabaseURL   = "SHIFTBOARD_DATABASE_URL"
	EnvDataDir       = "SHIFTBOARD_DATA_DIR"
	EnvAdminPasscode = "SHIFTBOARD_ADMIN_PASSCODE"
	EnvExportDay     = "SHIFTBOARD_EXPORT_DAY"
	EnvOAuthClient   = "SHIFTBOARD_OAUTH_CLIENT"
)

const (
	defaultDataDir        = "data"
	defaultReportDir      = "reports"
	defaultTimezone       = "America/Sao_Paulo"
	defaultAdminPasscode  = "1029"
	defaultExportDay      = 16
	defaultDigestSchedule = "5 0 * * *"
	defaultCountryCode    = "55"
)

// ShiftPreset is a named shift template the CLI can publish from
type ShiftPreset struct {
	Name  string `yaml:"name" validate:"required"`
	Start string `yaml:"start" validate:"required,datetime=15:04"`
	End   string `yaml:"end" validate:"required,datetime=15:04"`
	// RRule optionally makes the preset recurring, e.g. "FREQ=WEEKLY;BYDAY=SA;COUNT=4"
	RRule string `yaml:"rrule,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Storage     string `yaml:"storage" validate:"required,oneof=file postgres"`
	DataDir     string `yaml:"dataDir,omitempty" validate:"required_if=Storage file"`
	DatabaseURL string `yaml:"databaseURL,omitempty" validate:"required_if=Storage postgres"`

	Timezone      string `yaml:"timezone" validate:"required,timezone"`
	AdminPasscode string `yaml:"adminPasscode" validate:"required,numeric"`

	ExportDay     int    `yaml:"exportDay" validate:"min=1,max=31"`
	ReportDir     string `yaml:"reportDir" validate:"required"`
	ReportSheetID string `yaml:"reportSheetID,omitempty"`

	// OAuthClientFile overrides the oauthClient.<env>.json search
	OAuthClientFile string `yaml:"oauthClientFile,omitempty"`

	NotifyByEmail bool     `yaml:"notifyByEmail"`
	GmailUserID   string   `yaml:"gmailUserID,omitempty" validate:"required_if=NotifyByEmail true"`
	GmailSender   string   `yaml:"gmailSender,omitempty"`
	NotifyEmails  []string `yaml:"notifyEmails,omitempty" validate:"required_if=NotifyByEmail true,dive,email"`

	DigestSchedule     string        `yaml:"digestSchedule" validate:"required"`
	DefaultCountryCode string        `yaml:"defaultCountryCode" validate:"required,numeric"`
	ShiftPresets       []ShiftPreset `yaml:"shiftPresets,omitempty" validate:"dive"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// UsesGoogle reports whether any configured feature needs a Google OAuth token
func (c *Config) UsesGoogle() bool {
	return c.NotifyByEmail || c.ReportSheetID != ""
}

// Location returns the time zone used to decide what "today" is
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Preset looks up a shift preset by name
func (c *Config) Preset(name string) (ShiftPreset, bool) {
	for _, p := range c.ShiftPresets {
		if p.Name == name {
			return p, true
		}
	}
	return ShiftPreset{}, false
}

// Default returns a valid configuration using local file storage
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// LoadWithEnv loads the configuration for an environment.
// For example, env="test" will look for "shiftboard_config.test.yaml".
// A .env file in the working directory is loaded first so its variables can
// override values from the config file.
func LoadWithEnv(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	if err := applyEnvOverrides(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage == "" {
		cfg.Storage = StorageFile
	}
	if cfg.Storage == StorageFile && cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}
	if cfg.AdminPasscode == "" {
		cfg.AdminPasscode = defaultAdminPasscode
	}
	if cfg.ExportDay == 0 {
		cfg.ExportDay = defaultExportDay
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = defaultReportDir
	}
	if cfg.DigestSchedule == "" {
		cfg.DigestSchedule = defaultDigestSchedule
	}
	if cfg.DefaultCountryCode == "" {
		cfg.DefaultCountryCode = defaultCountryCode
	}
}

func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDatabaseURL); ok && v != "" {
		cfg.DatabaseURL = v
		cfg.Storage = StoragePostgres
	}
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := lookup(EnvAdminPasscode); ok && v != "" {
		cfg.AdminPasscode = v
	}
	if v, ok := lookup(EnvOAuthClient); ok && v != "" {
		cfg.OAuthClientFile = v
	}
	if v, ok := lookup(EnvExportDay); ok && v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvExportDay, err)
		}
		cfg.ExportDay = day
	}
	return nil
}

// Validate validates the configuration struct, preset rrules and the digest schedule
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, preset := range cfg.ShiftPresets {
		if preset.RRule == "" {
			continue
		}
		if _, err := rrule.StrToROption(preset.RRule); err != nil {
			return fmt.Errorf("invalid rrule in shiftPresets[%d]: %w", i, err)
		}
	}

	if _, err := cron.ParseStandard(cfg.DigestSchedule); err != nil {
		return fmt.Errorf("invalid digestSchedule: %w", err)
	}

	return nil
}

// findConfigFile searches for shiftboard_config.<env>.yaml in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "shiftboard_config.yaml"
	if env != "" {
		configFileName = "shiftboard_config." + env + ".yaml"
	}

	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
