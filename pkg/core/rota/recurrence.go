package rota

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxOccurrences bounds how many shifts one recurring publish may create
const MaxOccurrences = 366

const dateLayout = "2006-01-02"

var (
	ErrUnboundedRule      = errors.New("recurrence rule needs COUNT or UNTIL")
	ErrTooManyOccurrences = fmt.Errorf("recurrence rule yields more than %d occurrences", MaxOccurrences)
)

// ExpandRecurrence returns the dates (YYYY-MM-DD) an RFC 5545 RRULE produces
// when started on from, which is the first candidate date.
func ExpandRecurrence(rule, from string) ([]string, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", from, err)
	}

	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %w", err)
	}
	if opt.Count == 0 && opt.Until.IsZero() {
		return nil, ErrUnboundedRule
	}
	opt.Dtstart = start

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid rrule: %w", err)
	}

	var dates []string
	next := r.Iterator()
	for {
		occurrence, ok := next()
		if !ok {
			break
		}
		if len(dates) == MaxOccurrences {
			return nil, ErrTooManyOccurrences
		}
		dates = append(dates, occurrence.Format(dateLayout))
	}
	return dates, nil
}
