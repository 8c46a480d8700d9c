package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/internal/config"
	"github.com/rseventos/shiftboard/pkg/core/services"
	"github.com/rseventos/shiftboard/pkg/db"
	"github.com/rseventos/shiftboard/pkg/notify"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2026, time.October, 16, 14, 30, 0, 0, time.UTC)

func newTestApp(t *testing.T) *AppContext {
	t.Helper()
	storage := db.NewMemoryStorage()
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.ReportDir = t.TempDir()
	cfg.ShiftPresets = []config.ShiftPreset{
		{Name: "saturday", Start: "18:00", End: "23:00", RRule: "FREQ=WEEKLY;BYDAY=SA;COUNT=2"},
	}
	logger := zap.NewNop()

	return &AppContext{
		Cfg:      cfg,
		Database: db.NewDB(storage, nil, logger),
		Prefs:    db.NewPrefs(storage),
		Notifier: notify.NewLogNotifier(logger),
		Logger:   logger,
		Ctx:      context.Background(),
		Clock:    func() time.Time { return testNow },
	}
}

// run executes one command line against a fresh command tree and returns its output
func run(t *testing.T, app *AppContext, stdin string, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "shiftboard", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(All(app)...)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func loginAdmin(t *testing.T, app *AppContext) {
	t.Helper()
	_, err := run(t, app, "", "login", db.SeedAdminEmail, db.SeedAdminPassword)
	require.NoError(t, err)
	require.NotNil(t, app.Session)
}

func TestLoginCmd_RememberedCredentials(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "", "login")
	assert.ErrorContains(t, err, "no remembered credentials")

	out, err := run(t, app, "", "login", db.SeedAdminEmail, db.SeedAdminPassword, "--remember")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Welcome, Administrador (admin)")

	_, err = run(t, app, "", "logout")
	require.NoError(t, err)
	assert.Nil(t, app.Session)

	out, err = run(t, app, "", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Administrador")
}

func TestLoginCmd_RefreshesDigestForAdmins(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	doc, err := app.Database.Load(app.Ctx)
	require.NoError(t, err)
	require.Len(t, doc.Notifications, 1)
	assert.Equal(t, services.DigestID("2026-10-16"), doc.Notifications[0].ID)
}

func TestSignupCmd_AdminPasscode(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "", "signup", "Bia", "bia@rseventos.com", "pw", "--admin", "0000")
	assert.ErrorIs(t, err, services.ErrAdminAccessDenied)
	assert.Nil(t, app.Session)

	out, err := run(t, app, "", "signup", "Bia", "bia@rseventos.com", "pw", "--admin", "1029")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Bia (admin)")
}

func TestPublishShiftCmd_Preset(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	out, err := run(t, app, "", "publishShift", db.SeedTeamID, "p1", "--preset", "saturday")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Published 2 shifts")
	assert.Contains(t, out, "2026-10-17  18:00-23:00")
	assert.Contains(t, out, "2026-10-24  18:00-23:00")

	out, err = run(t, app, "", "publishShift", db.SeedTeamID, "p1", "p2", "--preset", "saturday", "--once", "--end", "22:00")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Shift published: 2026-10-16 18:00-22:00")

	out, err = run(t, app, "", "listShifts", "--person", "p2")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 shifts")
	assert.Contains(t, out, "Present: João Silva, Maria Souza")

	_, err = run(t, app, "", "publishShift", db.SeedTeamID, "p1", "--preset", "sunday")
	assert.ErrorContains(t, err, "unknown shift preset")
}

func TestPublishShiftCmd_EditWithRecurringPreset(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	out, err := run(t, app, "", "publishShift", db.SeedTeamID, "p1")
	require.NoError(t, err)
	id := out[strings.LastIndex(out, "(")+1 : strings.LastIndex(out, ")")]

	out, err = run(t, app, "", "publishShift", db.SeedTeamID, "p1", "p2", "--edit", id, "--preset", "saturday")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Shift updated: 2026-10-16 18:00-23:00 ("+id+")")

	out, err = run(t, app, "", "listShifts")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 shifts")
}

func TestPublishShiftCmd_WarnsOnDoubleBooking(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	_, err := run(t, app, "", "publishShift", db.SeedTeamID, "p1")
	require.NoError(t, err)
	out, err := run(t, app, "", "publishShift", db.SeedTeamID, "p1", "--start", "18:00", "--end", "22:00")
	require.NoError(t, err)
	assert.Contains(t, out, "⚠️  p1 already works 08:00-17:00 that day")
}

func TestAssignTeamCmd(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	out, err := run(t, app, "", "addPerson", "Ana", "--team", db.SeedTeamID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Added Ana (fixed)")

	out, err = run(t, app, "", "listPeople")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana (")
	assert.Contains(t, out, "- team "+db.SeedTeamID)

	out, err = run(t, app, "", "assignTeam", "p1", db.SeedTeamID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ p1 now belongs to team "+db.SeedTeamID)

	out, err = run(t, app, "", "assignTeam", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ p1 no longer belongs to a team")

	_, err = run(t, app, "", "assignTeam", db.SeedAdminID, db.SeedTeamID, "--user")
	require.NoError(t, err)
	doc, err := app.Database.Load(app.Ctx)
	require.NoError(t, err)
	assert.Equal(t, db.SeedTeamID, doc.Users[0].TeamID)
}

func TestPendingCmd(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	out, err := run(t, app, "", "pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending on 2026-10-16")
	assert.Contains(t, out, "• FIXED WITHOUT SHIFT (2): João Silva, Maria Souza")
	assert.Contains(t, out, "• DAY-RATE WITHOUT SHIFT (0): None")

	_, err = run(t, app, "", "pending", "16/10/2026")
	assert.ErrorIs(t, err, services.ErrInvalidDate)
}

func TestCommands_RequireLogin(t *testing.T) {
	app := newTestApp(t)

	for _, args := range [][]string{
		{"listPeople"},
		{"pending"},
		{"inbox"},
		{"whoami"},
	} {
		_, err := run(t, app, "", args...)
		assert.Error(t, err, args[0])
	}
}

func TestExportReportCmd(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	out, err := run(t, app, "", "exportReport")
	require.NoError(t, err)
	assert.Contains(t, out, "Relatorio_RS_Eventos_10_2026.pdf")

	app.Clock = func() time.Time { return testNow.AddDate(0, 0, 1) }
	_, err = run(t, app, "", "exportReport")
	assert.ErrorIs(t, err, services.ErrExportWindowClosed)
}

func TestContactsCmds(t *testing.T) {
	app := newTestApp(t)
	loginAdmin(t, app)

	out, err := run(t, app, "", "addContact", "Zeca", "(11) 98888-7777")
	require.NoError(t, err)
	id := out[strings.LastIndex(out, "(")+1 : strings.LastIndex(out, ")")]

	out, err = run(t, app, "", "dial", id)
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511988887777\n", out)
}

func TestThemeCmd(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "Theme: dark\n", out)

	out, err = run(t, app, "", "theme", "light")
	require.NoError(t, err)
	assert.Equal(t, "Theme: light\n", out)

	_, err = run(t, app, "", "theme", "sepia")
	assert.Error(t, err)
}
