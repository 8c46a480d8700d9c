package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/core/rota"
)

var validate = validator.New()

// Notification titles written by shift operations
const (
	TitleShiftEdited      = "SHIFT EDITED"
	TitleDuplicateBooking = "DUPLICATE ASSIGNMENT DETECTED"
)

// ShiftInput is the shift form. EditingID selects the shift to replace; empty
// creates a new one.
type ShiftInput struct {
	Date      string `validate:"required,datetime=2006-01-02"`
	Start     string `validate:"required,datetime=15:04"`
	End       string `validate:"required,datetime=15:04"`
	TeamID    string
	PersonIDs []string
	Notes     string
	EditingID string
}

// PublishResult describes one written shift
type PublishResult struct {
	Shift          model.Shift
	Created        bool
	DoubleBookings []rota.DoubleBooking
}

// PublishShift creates or replaces a shift and its assignments. Assignees
// already working another shift that day are reported to admins in a single
// warning notification; publishing goes ahead regardless.
func PublishShift(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	input ShiftInput,
	now time.Time,
) (*PublishResult, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	result, err := publishInto(doc, session, input, now)
	if err != nil {
		return nil, err
	}
	if !session.IsAdmin() {
		action := "edited"
		if result.Created {
			action = "published"
		}
		appendLeadNotice(doc, now, fmt.Sprintf("Lead %s %s a shift for team %s.",
			session.User.Name, action, teamName(doc, result.Shift.TeamID)))
	}
	appendDoubleBookingWarning(doc, result.Shift, result.DoubleBookings, now)

	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save shift: %w", err)
	}

	logger.Info("Published shift",
		zap.String("shift_id", result.Shift.ID),
		zap.String("date", result.Shift.Date),
		zap.Bool("created", result.Created),
		zap.Int("assignees", countAssignees(doc, result.Shift.ID)),
		zap.Int("double_bookings", len(result.DoubleBookings)))
	if len(result.DoubleBookings) > 0 {
		logger.Warn("Collaborators assigned to more than one shift",
			zap.String("date", result.Shift.Date),
			zap.Int("count", len(result.DoubleBookings)))
	}
	return &result, nil
}

// PublishRecurringShift publishes one new shift per occurrence of rule,
// starting at input.Date. Every occurrence is written in a single save, so
// either all shifts are stored or none.
func PublishRecurringShift(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	input ShiftInput,
	rule string,
	now time.Time,
) ([]PublishResult, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}
	if input.EditingID != "" {
		return nil, fmt.Errorf("%w: a recurring publish cannot edit an existing shift", ErrInvalidShift)
	}
	if err := validate.Var(input.Date, "required,datetime=2006-01-02"); err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrInvalidShift, input.Date)
	}

	dates, err := rota.ExpandRecurrence(rule, input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShift, err)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	results := make([]PublishResult, 0, len(dates))
	for _, date := range dates {
		occurrence := input
		occurrence.Date = date
		result, err := publishInto(doc, session, occurrence, now)
		if err != nil {
			return nil, fmt.Errorf("occurrence %s: %w", date, err)
		}
		results = append(results, result)
	}

	if !session.IsAdmin() && len(results) > 0 {
		appendLeadNotice(doc, now, fmt.Sprintf("Lead %s published %d recurring shifts for team %s.",
			session.User.Name, len(results), teamName(doc, input.TeamID)))
	}
	for _, r := range results {
		appendDoubleBookingWarning(doc, r.Shift, r.DoubleBookings, now)
	}

	if err := store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save shifts: %w", err)
	}

	logger.Info("Published recurring shifts",
		zap.String("rule", rule),
		zap.String("team_id", input.TeamID),
		zap.Int("count", len(results)))
	return results, nil
}

// publishInto validates input and writes the shift and its assignments into
// doc. It does not save.
func publishInto(doc *model.Document, session *Session, input ShiftInput, now time.Time) (PublishResult, error) {
	personIDs := dedupe(input.PersonIDs)
	if strings.TrimSpace(input.TeamID) == "" || len(personIDs) == 0 {
		return PublishResult{}, ErrMissingTeamOrAssignees
	}
	if err := validate.Struct(input); err != nil {
		return PublishResult{}, fmt.Errorf("%w: %v", ErrInvalidShift, err)
	}
	if findTeam(doc, input.TeamID) == nil {
		return PublishResult{}, fmt.Errorf("team %s: %w", input.TeamID, ErrNotFound)
	}
	for _, id := range personIDs {
		if findPerson(doc, id) == nil {
			return PublishResult{}, fmt.Errorf("collaborator %s: %w", id, ErrNotFound)
		}
	}

	shift := model.Shift{
		Date:        input.Date,
		Start:       input.Start,
		End:         input.End,
		TeamID:      input.TeamID,
		PublishedAt: now.UTC(),
		Notes:       strings.TrimSpace(input.Notes),
	}

	created := input.EditingID == ""
	if created {
		shift.ID = newID()
		shift.CreatedBy = session.User.ID
	} else {
		existing := findShift(doc, input.EditingID)
		if existing == nil {
			return PublishResult{}, fmt.Errorf("shift %s: %w", input.EditingID, ErrNotFound)
		}
		if !session.IsAdmin() && !inLeadScope(doc, storedUser(doc, session), *existing) {
			return PublishResult{}, ErrOutOfScope
		}
		shift.ID = existing.ID
		shift.CreatedBy = existing.CreatedBy
	}

	bookings := rota.FindDoubleBookings(doc.Shifts, doc.Assignments, shift.Date, shift.ID, personIDs)

	if created {
		doc.Shifts = append(doc.Shifts, shift)
	} else {
		*findShift(doc, shift.ID) = shift
		doc.Assignments = removeAssignments(doc.Assignments, func(a model.ShiftAssignment) bool {
			return a.ShiftID == shift.ID
		})
		doc.History = append(doc.History, model.ChangeLogEntry{
			ID:          newID(),
			ShiftID:     shift.ID,
			EditedBy:    session.User.ID,
			EditedAt:    now.UTC(),
			Description: fmt.Sprintf("EDITED SHIFT: team %s on %s", teamName(doc, shift.TeamID), shift.Date),
		})
	}
	for _, personID := range personIDs {
		doc.Assignments = append(doc.Assignments, model.ShiftAssignment{
			ID:       newID(),
			ShiftID:  shift.ID,
			PersonID: personID,
		})
	}

	return PublishResult{Shift: shift, Created: created, DoubleBookings: bookings}, nil
}

func appendLeadNotice(doc *model.Document, now time.Time, message string) {
	doc.Notifications = append(doc.Notifications, adminNotice(TitleShiftEdited, message, now))
}

// appendDoubleBookingWarning adds one admin warning naming every flagged
// collaborator with all the teams they are booked with on shift.Date
func appendDoubleBookingWarning(doc *model.Document, shift model.Shift, bookings []rota.DoubleBooking, now time.Time) {
	if len(bookings) == 0 {
		return
	}

	entries := make([]string, 0, len(bookings))
	for _, b := range bookings {
		teams := make([]string, 0, len(b.Shifts)+1)
		for _, s := range b.Shifts {
			teams = appendUnique(teams, teamName(doc, s.TeamID))
		}
		teams = appendUnique(teams, teamName(doc, shift.TeamID))
		entries = append(entries, fmt.Sprintf("%s (%s)", personName(doc, b.PersonID), strings.Join(teams, ", ")))
	}

	message := fmt.Sprintf("Warning: %s were assigned to more than one team on %s.", strings.Join(entries, "; "), shift.Date)
	doc.Notifications = append(doc.Notifications, adminNotice(TitleDuplicateBooking, message, now))
}

func adminNotice(title, message string, now time.Time) model.Notification {
	return model.Notification{
		ID:        newID(),
		Role:      model.RoleAdmin,
		Title:     title,
		Message:   message,
		CreatedAt: now.UTC(),
	}
}

// DeleteShift removes a shift with its assignments and records the deletion
func DeleteShift(
	ctx context.Context,
	store DocumentStore,
	logger *zap.Logger,
	session *Session,
	shiftID string,
	now time.Time,
) error {
	if err := requireAdmin(session); err != nil {
		return err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	shift := findShift(doc, shiftID)
	if shift == nil {
		return fmt.Errorf("shift %s: %w", shiftID, ErrNotFound)
	}
	deleted := *shift

	shifts := make([]model.Shift, 0, len(doc.Shifts))
	for _, s := range doc.Shifts {
		if s.ID != shiftID {
			shifts = append(shifts, s)
		}
	}
	doc.Shifts = shifts
	doc.Assignments = removeAssignments(doc.Assignments, func(a model.ShiftAssignment) bool {
		return a.ShiftID == shiftID
	})
	doc.History = append(doc.History, model.ChangeLogEntry{
		ID:          newID(),
		ShiftID:     shiftID,
		EditedBy:    session.User.ID,
		EditedAt:    now.UTC(),
		Description: fmt.Sprintf("DELETED SHIFT: team %s on %s", teamName(doc, deleted.TeamID), deleted.Date),
	})

	if err := store.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Deleted shift", zap.String("shift_id", shiftID), zap.String("date", deleted.Date))
	return nil
}

// ShiftFilter narrows ListShifts. Empty fields match everything.
type ShiftFilter struct {
	Date     string
	TeamID   string
	PersonID string
}

// ShiftView is a shift with names resolved for display
type ShiftView struct {
	model.Shift
	TeamName    string
	CreatorName string
	People      []model.Person
}

// ListShifts returns the shifts visible to the session, newest date first and
// by start time within a date
func ListShifts(ctx context.Context, store DocumentStore, session *Session, filter ShiftFilter) ([]ShiftView, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	assignees := make(map[string][]model.Person)
	for _, a := range doc.Assignments {
		if p := findPerson(doc, a.PersonID); p != nil {
			assignees[a.ShiftID] = append(assignees[a.ShiftID], *p)
		}
	}

	views := make([]ShiftView, 0)
	for _, s := range doc.Shifts {
		if !session.IsAdmin() && !inLeadScope(doc, storedUser(doc, session), s) {
			continue
		}
		if filter.Date != "" && s.Date != filter.Date {
			continue
		}
		if filter.TeamID != "" && s.TeamID != filter.TeamID {
			continue
		}
		if filter.PersonID != "" && !hasPerson(assignees[s.ID], filter.PersonID) {
			continue
		}

		view := ShiftView{Shift: s, TeamName: teamName(doc, s.TeamID), People: assignees[s.ID]}
		if creator := findUser(doc, s.CreatedBy); creator != nil {
			view.CreatorName = creator.Name
		}
		views = append(views, view)
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Date != views[j].Date {
			return views[i].Date > views[j].Date
		}
		return views[i].Start < views[j].Start
	})
	return views, nil
}

func hasPerson(people []model.Person, id string) bool {
	for _, p := range people {
		if p.ID == id {
			return true
		}
	}
	return false
}

func countAssignees(doc *model.Document, shiftID string) int {
	n := 0
	for _, a := range doc.Assignments {
		if a.ShiftID == shiftID {
			n++
		}
	}
	return n
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
