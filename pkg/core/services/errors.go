package services

import "errors"

// Validation failures
var (
	ErrMissingField           = errors.New("required field is empty")
	ErrEmptyName              = errors.New("name must not be empty")
	ErrEmailInUse             = errors.New("this email is already in use")
	ErrPasswordTooShort       = errors.New("the new password must have at least 3 characters")
	ErrInvalidPersonType      = errors.New("collaborator type must be fixed or day_rate")
	ErrInvalidRole            = errors.New("role must be admin or lead")
	ErrInvalidStatus          = errors.New("status must be online, inactive or offline")
	ErrMissingTeamOrAssignees = errors.New("select a team and mark who is present")
	ErrInvalidShift           = errors.New("invalid shift")
	ErrInvalidDate            = errors.New("date must be YYYY-MM-DD")
	ErrNotFound               = errors.New("not found")
)

// Authorization failures
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAdminAccessDenied  = errors.New("incorrect admin passcode, access denied")
	ErrEmailNotFound      = errors.New("email not found")
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrAdminOnly          = errors.New("only administrators can do this")
	ErrOutOfScope         = errors.New("outside your team's scope")
)

// ErrExportWindowClosed is returned outside the monthly closing day
var ErrExportWindowClosed = errors.New("monthly closing export is not available today")
