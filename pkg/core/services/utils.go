package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

const dateLayout = "2006-01-02"

// DocumentStore loads and saves the whole application document.
// db.DB implements it.
type DocumentStore interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
}

// CredentialStore keeps the "remember me" login details. db.Prefs implements it.
type CredentialStore interface {
	RememberCredentials(ctx context.Context, email, password string) error
	ForgetCredentials(ctx context.Context) error
}

func newID() string {
	return uuid.NewString()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findUser(doc *model.Document, id string) *model.User {
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return &doc.Users[i]
		}
	}
	return nil
}

func findUserByEmail(doc *model.Document, email string) *model.User {
	email = normalizeEmail(email)
	for i := range doc.Users {
		if normalizeEmail(doc.Users[i].Email) == email {
			return &doc.Users[i]
		}
	}
	return nil
}

func findTeam(doc *model.Document, id string) *model.Team {
	for i := range doc.Teams {
		if doc.Teams[i].ID == id {
			return &doc.Teams[i]
		}
	}
	return nil
}

func findPerson(doc *model.Document, id string) *model.Person {
	for i := range doc.People {
		if doc.People[i].ID == id {
			return &doc.People[i]
		}
	}
	return nil
}

func findShift(doc *model.Document, id string) *model.Shift {
	for i := range doc.Shifts {
		if doc.Shifts[i].ID == id {
			return &doc.Shifts[i]
		}
	}
	return nil
}

func teamName(doc *model.Document, id string) string {
	if team := findTeam(doc, id); team != nil {
		return team.Name
	}
	return "Team"
}

func personName(doc *model.Document, id string) string {
	if person := findPerson(doc, id); person != nil {
		return person.Name
	}
	return "Person"
}

func personNames(people []model.Person) []string {
	names := make([]string, len(people))
	for i, p := range people {
		names[i] = p.Name
	}
	return names
}

// storedUser returns the document's copy of the session user so team changes
// made after login apply immediately
func storedUser(doc *model.Document, session *Session) model.User {
	if u := findUser(doc, session.User.ID); u != nil {
		return *u
	}
	return session.User
}

// inLeadScope reports whether a lead may see and edit shift: it belongs to a
// team they lead or are a member of, or they authored it
func inLeadScope(doc *model.Document, user model.User, shift model.Shift) bool {
	if shift.CreatedBy == user.ID {
		return true
	}
	if user.TeamID != "" && shift.TeamID == user.TeamID {
		return true
	}
	team := findTeam(doc, shift.TeamID)
	return team != nil && team.LeadID == user.ID
}

// removeAssignments drops every assignment matching drop
func removeAssignments(assignments []model.ShiftAssignment, drop func(model.ShiftAssignment) bool) []model.ShiftAssignment {
	kept := make([]model.ShiftAssignment, 0, len(assignments))
	for _, a := range assignments {
		if !drop(a) {
			kept = append(kept, a)
		}
	}
	return kept
}
