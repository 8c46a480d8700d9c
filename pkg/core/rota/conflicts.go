package rota

import "github.com/rseventos/shiftboard/pkg/core/model"

// DoubleBooking is a person who already works another shift on the same date
type DoubleBooking struct {
	PersonID string
	// Shifts are the other shifts on that date the person is assigned to, in
	// document order
	Shifts []model.Shift
}

// FindDoubleBookings checks each of personIDs against every shift dated date
// except excludeShiftID (the shift being written). People with no other
// shift that day are omitted. Order follows personIDs.
func FindDoubleBookings(shifts []model.Shift, assignments []model.ShiftAssignment, date, excludeShiftID string, personIDs []string) []DoubleBooking {
	others := make(map[string]model.Shift)
	var order []string
	for _, s := range shifts {
		if s.Date == date && s.ID != excludeShiftID {
			others[s.ID] = s
			order = append(order, s.ID)
		}
	}
	if len(others) == 0 {
		return nil
	}

	assigned := make(map[string]map[string]bool) // person -> shift ids
	for _, a := range assignments {
		if _, ok := others[a.ShiftID]; !ok {
			continue
		}
		if assigned[a.PersonID] == nil {
			assigned[a.PersonID] = make(map[string]bool)
		}
		assigned[a.PersonID][a.ShiftID] = true
	}

	var bookings []DoubleBooking
	seen := make(map[string]bool)
	for _, personID := range personIDs {
		if seen[personID] || len(assigned[personID]) == 0 {
			continue
		}
		seen[personID] = true

		booking := DoubleBooking{PersonID: personID}
		for _, shiftID := range order {
			if assigned[personID][shiftID] {
				booking.Shifts = append(booking.Shifts, others[shiftID])
			}
		}
		bookings = append(bookings, booking)
	}
	return bookings
}
