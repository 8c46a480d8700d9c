package rota

import "github.com/rseventos/shiftboard/pkg/core/model"

// PendingResult lists the active collaborators without a shift on a day,
// split by contract type
type PendingResult struct {
	Fixed   []model.Person
	DayRate []model.Person
}

func (r PendingResult) Total() int {
	return len(r.Fixed) + len(r.DayRate)
}

func (r PendingResult) IsEmpty() bool {
	return r.Total() == 0
}

// PresentOn returns the ids of everyone assigned to at least one shift dated date
func PresentOn(shifts []model.Shift, assignments []model.ShiftAssignment, date string) map[string]bool {
	shiftsOnDate := make(map[string]bool)
	for _, s := range shifts {
		if s.Date == date {
			shiftsOnDate[s.ID] = true
		}
	}

	present := make(map[string]bool)
	for _, a := range assignments {
		if shiftsOnDate[a.ShiftID] {
			present[a.PersonID] = true
		}
	}
	return present
}

// PendingFor returns the active people with no assignment on date. Inactive
// people are never pending. Order follows people.
func PendingFor(people []model.Person, shifts []model.Shift, assignments []model.ShiftAssignment, date string) PendingResult {
	present := PresentOn(shifts, assignments, date)

	var result PendingResult
	for _, p := range people {
		if !p.Active || present[p.ID] {
			continue
		}
		switch p.Type {
		case model.PersonFixed:
			result.Fixed = append(result.Fixed, p)
		case model.PersonDayRate:
			result.DayRate = append(result.DayRate, p)
		}
	}
	return result
}
