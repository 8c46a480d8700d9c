package services

import (
	"context"
	"fmt"

	"github.com/rseventos/shiftboard/pkg/core/rota"
)

// Pending lists the active collaborators with no shift on date (YYYY-MM-DD)
func Pending(ctx context.Context, store DocumentStore, session *Session, date string) (rota.PendingResult, error) {
	if err := requireSession(session); err != nil {
		return rota.PendingResult{}, err
	}
	if err := validate.Var(date, "required,datetime=2006-01-02"); err != nil {
		return rota.PendingResult{}, fmt.Errorf("%q: %w", date, ErrInvalidDate)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return rota.PendingResult{}, fmt.Errorf("failed to load document: %w", err)
	}
	return rota.PendingFor(doc.People, doc.Shifts, doc.Assignments, date), nil
}
