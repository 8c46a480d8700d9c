package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []string
		wantErr bool
	}{
		{"plain words", "addPerson Ana", []string{"addPerson", "Ana"}, false},
		{"double quotes", `addPerson "Ana Lima" --type day_rate`, []string{"addPerson", "Ana Lima", "--type", "day_rate"}, false},
		{"single quotes", `addContact 'Zeca do Bar' '(11) 9999-0000'`, []string{"addContact", "Zeca do Bar", "(11) 9999-0000"}, false},
		{"quote inside word", `publishShift e1 p1 --notes="bring aprons"`, []string{"publishShift", "e1", "p1", "--notes=bring aprons"}, false},
		{"empty quoted arg", `profile --phone ""`, []string{"profile", "--phone", ""}, false},
		{"extra spaces", "  listShifts   --date  2026-10-16 ", []string{"listShifts", "--date", "2026-10-16"}, false},
		{"unicode", "addPerson João", []string{"addPerson", "João"}, false},
		{"unclosed quote", `addPerson "Ana`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCommandLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInteractiveSession(t *testing.T) {
	app := newTestApp(t)

	input := `help
login admin@rseventos.com 123
addPerson "Ana Lima" --type day_rate
addPerson Bruno
pending 2026-10-16
bogus
addContact "unterminated
whoami
exit
listPeople
`
	out, err := run(t, app, input, "interactive")
	require.NoError(t, err)

	assert.Contains(t, out, "Available commands:")
	assert.NotContains(t, out, "  watch ", "watch is not offered inside a session")
	assert.Contains(t, out, "✓ Welcome, Administrador (admin)")
	assert.Contains(t, out, "Administrador> ", "prompt shows the logged-in user")
	assert.Contains(t, out, "✓ Added Ana Lima (day_rate)")
	assert.Contains(t, out, "✓ Added Bruno (fixed)", "--type resets to its default between commands")
	assert.Contains(t, out, "• DAY-RATE WITHOUT SHIFT (1): Ana Lima")
	assert.Contains(t, out, "❌ Unknown command: bogus")
	assert.Contains(t, out, "❌ Error parsing command: unclosed quote")
	assert.Contains(t, out, "Administrador <admin@rseventos.com>")
	assert.Contains(t, out, "👋 Goodbye!")
	assert.NotContains(t, out, "Found", "commands after exit are not run")
}

func TestInteractiveSession_ErrorsDoNotEndSession(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "listPeople\nlogin admin@rseventos.com wrong\nsignup\n", "interactive")
	require.NoError(t, err, "end of input ends the session cleanly")

	assert.Contains(t, out, "❌ Error: not logged in")
	assert.Contains(t, out, "❌ Error: incorrect email or password")
	assert.Contains(t, out, "❌ Error: accepts 3 arg(s), received 0")
}
