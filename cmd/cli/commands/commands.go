package commands

import "github.com/spf13/cobra"

// All returns every top-level command bound to app
func All(app *AppContext) []*cobra.Command {
	return []*cobra.Command{
		LoginCmd(app),
		LogoutCmd(app),
		SignupCmd(app),
		ResetPasswordCmd(app),
		WhoamiCmd(app),

		AddPersonCmd(app),
		DeletePersonCmd(app),
		SetActiveCmd(app),
		AssignTeamCmd(app),
		ListPeopleCmd(app),
		SaveTeamCmd(app),
		DeleteTeamCmd(app),
		ListTeamsCmd(app),

		PublishShiftCmd(app),
		DeleteShiftCmd(app),
		ListShiftsCmd(app),
		PendingCmd(app),

		InboxCmd(app),
		MarkReadCmd(app),
		ClearNotificationsCmd(app),

		StatsCmd(app),
		HistoryCmd(app),
		ExportReportCmd(app),

		AddContactCmd(app),
		DeleteContactCmd(app),
		ListContactsCmd(app),
		DialCmd(app),

		ProfileCmd(app),
		StatusCmd(app),
		ThemeCmd(app),

		WatchCmd(app),
		InteractiveCmd(app),
	}
}
