package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/core/rota"
	"github.com/rseventos/shiftboard/pkg/notify"
)

// TitleDailySummary is the title of the daily pending digest
const TitleDailySummary = "DAILY ALLOCATION SUMMARY"

// SummaryOutcome reports what RefreshDailySummary did
type SummaryOutcome int

const (
	SummarySkipped SummaryOutcome = iota
	SummaryUnchanged
	SummaryCreated
	SummaryUpdated
	SummaryRemoved
)

func (o SummaryOutcome) String() string {
	switch o {
	case SummarySkipped:
		return "skipped"
	case SummaryUnchanged:
		return "unchanged"
	case SummaryCreated:
		return "created"
	case SummaryUpdated:
		return "updated"
	case SummaryRemoved:
		return "removed"
	default:
		return fmt.Sprintf("SummaryOutcome(%d)", int(o))
	}
}

// DigestID is the notification id of the digest for date; there is at most
// one per calendar day
func DigestID(date string) string {
	return "summary-" + date
}

// DigestMessage renders the pending lists as the digest body
func DigestMessage(pending rota.PendingResult) string {
	return fmt.Sprintf("Pending today:\n• FIXED WITHOUT SHIFT (%d): %s\n• DAY-RATE WITHOUT SHIFT (%d): %s",
		len(pending.Fixed), joinNamesOrNone(pending.Fixed),
		len(pending.DayRate), joinNamesOrNone(pending.DayRate))
}

func joinNamesOrNone(people []model.Person) string {
	if len(people) == 0 {
		return "None"
	}
	return strings.Join(personNames(people), ", ")
}

// RefreshDailySummary keeps today's admin digest in line with who is still
// without a shift. Only admin sessions refresh it. A newly created digest is
// also pushed through notifier; delivery failures are logged, never returned.
func RefreshDailySummary(
	ctx context.Context,
	store DocumentStore,
	notifier notify.Notifier,
	loc *time.Location,
	logger *zap.Logger,
	session *Session,
	now time.Time,
) (SummaryOutcome, error) {
	if !session.IsAdmin() {
		return SummarySkipped, nil
	}
	if loc == nil {
		loc = time.Local
	}
	today := now.In(loc).Format(dateLayout)
	id := DigestID(today)

	doc, err := store.Load(ctx)
	if err != nil {
		return SummarySkipped, fmt.Errorf("failed to load document: %w", err)
	}

	existing := -1
	for i, n := range doc.Notifications {
		if n.ID == id {
			existing = i
			break
		}
	}

	pending := rota.PendingFor(doc.People, doc.Shifts, doc.Assignments, today)

	var outcome SummaryOutcome
	switch {
	case pending.IsEmpty() && existing < 0:
		return SummaryUnchanged, nil
	case pending.IsEmpty():
		doc.Notifications = append(doc.Notifications[:existing], doc.Notifications[existing+1:]...)
		outcome = SummaryRemoved
	default:
		message := DigestMessage(pending)
		if existing >= 0 && doc.Notifications[existing].Message == message {
			return SummaryUnchanged, nil
		}

		digest := model.Notification{
			ID:        id,
			Role:      model.RoleAdmin,
			Title:     TitleDailySummary,
			Message:   message,
			CreatedAt: now.UTC(),
		}
		if existing >= 0 {
			doc.Notifications[existing] = digest
			outcome = SummaryUpdated
		} else {
			doc.Notifications = append(doc.Notifications, digest)
			outcome = SummaryCreated
		}
	}

	if err := store.Save(ctx, doc); err != nil {
		return SummarySkipped, fmt.Errorf("failed to save digest: %w", err)
	}

	logger.Info("Refreshed daily summary",
		zap.String("date", today),
		zap.Stringer("outcome", outcome),
		zap.Int("fixed", len(pending.Fixed)),
		zap.Int("day_rate", len(pending.DayRate)))

	if outcome == SummaryCreated && notifier != nil {
		msg := notify.Message{
			Title: "RS Eventos",
			Body:  fmt.Sprintf("There are %d collaborators without a shift.", pending.Total()),
		}
		if err := notifier.Notify(ctx, msg); err != nil {
			logger.Warn("Failed to deliver pending notification", zap.Error(err))
		}
	}
	return outcome, nil
}
