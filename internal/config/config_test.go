package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shiftboard_config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, Validate(cfg))
	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "1029", cfg.AdminPasscode)
	assert.Equal(t, 16, cfg.ExportDay)
	assert.Equal(t, "55", cfg.DefaultCountryCode)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
	assert.False(t, cfg.UsesGoogle())
}

func TestValidate_StorageRules(t *testing.T) {
	cfg := Default()
	cfg.Storage = "redis"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	cfg = Default()
	cfg.Storage = StoragePostgres
	err = Validate(cfg)
	require.Error(t, err, "postgres storage needs a database url")

	cfg.DatabaseURL = "postgres://localhost/shiftboard"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_ExportDayRange(t *testing.T) {
	for _, day := range []int{-1, 32} {
		cfg := Default()
		cfg.ExportDay = day
		assert.Error(t, Validate(cfg), "day %d", day)
	}
}

func TestValidate_EmailNotifications(t *testing.T) {
	cfg := Default()
	cfg.NotifyByEmail = true
	require.Error(t, Validate(cfg))

	cfg.GmailUserID = "me"
	cfg.NotifyEmails = []string{"not-an-email"}
	require.Error(t, Validate(cfg))

	cfg.NotifyEmails = []string{"gerencia@rseventos.com"}
	require.NoError(t, Validate(cfg))
	assert.True(t, cfg.UsesGoogle())
}

func TestValidate_Presets(t *testing.T) {
	tests := []struct {
		name    string
		preset  ShiftPreset
		wantErr string
	}{
		{
			name:   "one-off preset",
			preset: ShiftPreset{Name: "jantar", Start: "18:00", End: "23:30"},
		},
		{
			name:   "recurring preset",
			preset: ShiftPreset{Name: "sabado", Start: "10:00", End: "18:00", RRule: "FREQ=WEEKLY;BYDAY=SA;COUNT=4"},
		},
		{
			name:    "bad time",
			preset:  ShiftPreset{Name: "late", Start: "25:00", End: "23:30"},
			wantErr: "validation failed",
		},
		{
			name:    "bad rrule",
			preset:  ShiftPreset{Name: "broken", Start: "10:00", End: "12:00", RRule: "FREQ=SOMETIMES"},
			wantErr: "invalid rrule in shiftPresets[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.ShiftPresets = []ShiftPreset{tt.preset}

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DigestSchedule(t *testing.T) {
	cfg := Default()
	cfg.DigestSchedule = "every day"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid digestSchedule")
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
storage: file
dataDir: /var/lib/shiftboard
timezone: Europe/Lisbon
exportDay: 28
reportSheetID: sheet123
shiftPresets:
  - name: almoco
    start: "11:00"
    end: "15:00"
  - name: sabado
    start: "10:00"
    end: "18:00"
    rrule: "FREQ=WEEKLY;BYDAY=SA;COUNT=4"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/shiftboard", cfg.DataDir)
	assert.Equal(t, 28, cfg.ExportDay)
	assert.Equal(t, "Europe/Lisbon", cfg.Location().String())
	assert.True(t, cfg.UsesGoogle())

	preset, ok := cfg.Preset("sabado")
	require.True(t, ok)
	assert.Equal(t, "10:00", preset.Start)
	_, ok = cfg.Preset("missing")
	assert.False(t, ok)

	// defaults fill what the file leaves out
	assert.Equal(t, "1029", cfg.AdminPasscode)
	assert.Equal(t, "5 0 * * *", cfg.DigestSchedule)
}

func TestLoadFromPath_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "storage: file\n")

	t.Setenv(EnvDatabaseURL, "postgres://db/shiftboard")
	t.Setenv(EnvAdminPasscode, "4321")
	t.Setenv(EnvExportDay, "3")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://db/shiftboard", cfg.DatabaseURL)
	assert.Equal(t, "4321", cfg.AdminPasscode)
	assert.Equal(t, 3, cfg.ExportDay)
}

func TestLoadFromPath_BadExportDayEnv(t *testing.T) {
	path := writeConfig(t, "storage: file\n")
	t.Setenv(EnvExportDay, "sixteen")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvExportDay)
}

func TestLoadFromPath_Errors(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/shiftboard_config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := writeConfig(t, "storage: file\n  dataDir: [oops\n")
	_, err = LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")

	path = writeConfig(t, "adminPasscode: abc\n")
	_, err = LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadWithEnv_ReadsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shiftboard_config.staging.yaml"), []byte("exportDay: 2\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvDataDir+"=/srv/rs\n"), 0644))
	t.Chdir(dir)
	t.Setenv(EnvDataDir, "")
	os.Unsetenv(EnvDataDir)

	cfg, err := LoadWithEnv("staging")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.ExportDay)
	assert.Equal(t, "/srv/rs", cfg.DataDir)
}
