package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

// AddPerson appends an active collaborator
func AddPerson(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	name string,
	personType model.PersonType,
) (*model.Person, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !personType.IsValid() {
		return nil, ErrInvalidPersonType
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	person := model.Person{ID: newID(), Name: name, Type: personType, Active: true}
	doc.People = append(doc.People, person)

	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save collaborator: %w", err)
	}

	logger.Info("Added collaborator", zap.String("person_id", person.ID), zap.String("type", string(personType)))
	return &person, nil
}

// DeletePerson removes a collaborator and every assignment referencing them
func DeletePerson(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, personID string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if findPerson(doc, personID) == nil {
		return fmt.Errorf("collaborator %s: %w", personID, ErrNotFound)
	}

	people := make([]model.Person, 0, len(doc.People))
	for _, p := range doc.People {
		if p.ID != personID {
			people = append(people, p)
		}
	}
	before := len(doc.Assignments)
	doc.People = people
	doc.Assignments = removeAssignments(doc.Assignments, func(a model.ShiftAssignment) bool {
		return a.PersonID == personID
	})

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Deleted collaborator",
		zap.String("person_id", personID),
		zap.Int("assignments_removed", before-len(doc.Assignments)))
	return nil
}

// SetPersonActive toggles whether a collaborator counts in the pending check
func SetPersonActive(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, personID string, active bool) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	person := findPerson(doc, personID)
	if person == nil {
		return fmt.Errorf("collaborator %s: %w", personID, ErrNotFound)
	}
	if person.Active == active {
		return nil
	}
	person.Active = active

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Changed collaborator status", zap.String("person_id", personID), zap.Bool("active", active))
	return nil
}

// ListPeople returns every collaborator sorted by name
func ListPeople(ctx context.Context, store DocumentStore, session *Session) ([]model.Person, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	people := append([]model.Person(nil), doc.People...)
	sort.SliceStable(people, func(i, j int) bool {
		return strings.ToLower(people[i].Name) < strings.ToLower(people[j].Name)
	})
	return people, nil
}

// TeamView is a team with its lead's name resolved
type TeamView struct {
	model.Team
	LeadName string
}

// ListTeams returns teams in creation order
func ListTeams(ctx context.Context, store DocumentStore, session *Session) ([]TeamView, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	teams := make([]TeamView, 0, len(doc.Teams))
	for _, t := range doc.Teams {
		view := TeamView{Team: t}
		if lead := findUser(doc, t.LeadID); lead != nil {
			view.LeadName = lead.Name
		}
		teams = append(teams, view)
	}
	return teams, nil
}

// canManageTeam: admins manage every team, leads the teams they lead
func canManageTeam(session *Session, team *model.Team) bool {
	return session.IsAdmin() || team.LeadID == session.User.ID
}

// SaveTeam creates a team led by the caller, or renames existingID when set
func SaveTeam(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	name, existingID string,
) (*model.Team, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var saved model.Team
	if existingID != "" {
		team := findTeam(doc, existingID)
		if team == nil {
			return nil, fmt.Errorf("team %s: %w", existingID, ErrNotFound)
		}
		if !canManageTeam(session, team) {
			return nil, ErrOutOfScope
		}
		team.Name = name
		saved = *team
	} else {
		saved = model.Team{ID: newID(), Name: name, LeadID: session.User.ID}
		doc.Teams = append(doc.Teams, saved)
	}

	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save team: %w", err)
	}

	logger.Info("Saved team",
		zap.String("team_id", saved.ID),
		zap.Bool("renamed", existingID != ""))
	return &saved, nil
}

// DeleteTeam removes a team, its shifts and their assignments
func DeleteTeam(ctx context.Context, store DocumentStore, logger *zap.Logger, session *Session, teamID string) error {
	if err := requireSession(session); err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	team := findTeam(doc, teamID)
	if team == nil {
		return fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	if !canManageTeam(session, team) {
		return ErrOutOfScope
	}

	teams := make([]model.Team, 0, len(doc.Teams))
	for _, t := range doc.Teams {
		if t.ID != teamID {
			teams = append(teams, t)
		}
	}

	removedShifts := make(map[string]bool)
	shifts := make([]model.Shift, 0, len(doc.Shifts))
	for _, s := range doc.Shifts {
		if s.TeamID == teamID {
			removedShifts[s.ID] = true
			continue
		}
		shifts = append(shifts, s)
	}

	doc.Teams = teams
	doc.Shifts = shifts
	doc.Assignments = removeAssignments(doc.Assignments, func(a model.ShiftAssignment) bool {
		return removedShifts[a.ShiftID]
	})
	for i := range doc.Users {
		if doc.Users[i].TeamID == teamID {
			doc.Users[i].TeamID = ""
		}
	}
	for i := range doc.People {
		if doc.People[i].TeamID == teamID {
			doc.People[i].TeamID = ""
		}
	}

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Deleted team", zap.String("team_id", teamID), zap.Int("shifts_removed", len(removedShifts)))
	return nil
}

// AssignPersonTeam sets the team a collaborator belongs to. An empty teamID
// clears it. Leads may only move collaborators into or out of teams they lead.
func AssignPersonTeam(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	personID, teamID string,
) error {
	if err := requireSession(session); err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	person := findPerson(doc, personID)
	if person == nil {
		return fmt.Errorf("collaborator %s: %w", personID, ErrNotFound)
	}
	if err := checkTeamMove(doc, session, person.TeamID, teamID); err != nil {
		return err
	}
	if person.TeamID == teamID {
		return nil
	}
	person.TeamID = teamID

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Assigned collaborator team", zap.String("person_id", personID), zap.String("team_id", teamID))
	return nil
}

// AssignUserTeam makes a user a member of teamID, or of no team when empty.
// A lead can see and edit every shift of the team they are a member of.
func AssignUserTeam(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	userID, teamID string,
) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	user := findUser(doc, userID)
	if user == nil {
		return fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err := checkTeamMove(doc, session, user.TeamID, teamID); err != nil {
		return err
	}
	if user.TeamID == teamID {
		return nil
	}
	user.TeamID = teamID
	if doc.CurrentUser != nil && doc.CurrentUser.ID == userID {
		doc.CurrentUser.TeamID = teamID
	}

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Assigned user team", zap.String("user_id", userID), zap.String("team_id", teamID))
	return nil
}

// checkTeamMove validates a membership change from one team to another
func checkTeamMove(doc *model.Document, session *Session, from, to string) error {
	if to != "" {
		team := findTeam(doc, to)
		if team == nil {
			return fmt.Errorf("team %s: %w", to, ErrNotFound)
		}
		if !canManageTeam(session, team) {
			return ErrOutOfScope
		}
	}
	if from != "" && from != to {
		if team := findTeam(doc, from); team != nil && !canManageTeam(session, team) {
			return ErrOutOfScope
		}
	}
	return nil
}
