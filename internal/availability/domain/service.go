package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

// Service exposes availability collection for actors and reconciliation
// views for dispatchers.
type Service interface {
	// Submit replaces the actor's entries for the period in one step and
	// stores the notes alongside. Every day must lie inside the period.
	Submit(ctx context.Context, personID, planPeriodID uuid.UUID, entries []Entry, notes string) error
	// Toggle flips a single day-and-slot entry. The covering open period
	// of the actor's team is resolved from the day. Reports whether the
	// entry exists afterwards.
	Toggle(ctx context.Context, personID uuid.UUID, day time.Time, tod TimeOfDay) (bool, error)
	Entries(ctx context.Context, personID, planPeriodID uuid.UUID) ([]AvailDay, error)
	EntriesForPeriod(ctx context.Context, planPeriodID uuid.UUID) ([]PersonEntries, error)
	Notes(ctx context.Context, personID, planPeriodID uuid.UUID) (string, error)
	UpdateNotes(ctx context.Context, personID, planPeriodID uuid.UUID, notes string) error

	// NonResponders lists the actors of the period's team who neither
	// entered a day nor left notes.
	NonResponders(ctx context.Context, planPeriodID uuid.UUID) ([]teamdomain.Person, error)
	// IsFilledIn reports whether the actor entered at least one day.
	// Notes alone do not count.
	IsFilledIn(ctx context.Context, personID, planPeriodID uuid.UUID) (bool, error)

	ClearEntriesOutsideRange(ctx context.Context, planPeriodID uuid.UUID, start, end time.Time) (int64, error)
	DeleteForPeriod(ctx context.Context, planPeriodID uuid.UUID) error
	ClearForPersonOpenPeriods(ctx context.Context, personID uuid.UUID) error
}
