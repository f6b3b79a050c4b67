package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CreateRequest carries the fields for opening a new planning period.
// Start may be nil, in which case the day after the team's latest period
// end is used. ID may be set by importers that bring their own ids.
type CreateRequest struct {
	ID       *uuid.UUID
	TeamID   uuid.UUID
	Start    *time.Time
	End      time.Time
	Deadline time.Time
	Notes    string
}

// UpdateRequest carries the full replacement state for a period.
type UpdateRequest struct {
	ID       uuid.UUID
	Start    time.Time
	End      time.Time
	Deadline time.Time
	Notes    string
	Closed   bool
}

// UpdateResult reports what an update changed, so callers can react to a
// close transition or a moved deadline.
type UpdateResult struct {
	Period          *PlanPeriod
	ClosedNow       bool
	DeadlineChanged bool
	RemovedEntries  int64
}

// Service exposes planning period management.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*PlanPeriod, error)
	Update(ctx context.Context, req UpdateRequest) (UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*PlanPeriod, error)
	ListForTeam(ctx context.Context, teamID uuid.UUID) ([]PlanPeriod, error)
	// LastPeriodEnd returns the latest end day of the team, or nil when
	// the team has no periods yet.
	LastPeriodEnd(ctx context.Context, teamID uuid.UUID) (*time.Time, error)
	// ListOpenForActor lists the open periods of the actor's team,
	// flagged with whether the actor has entered days yet.
	ListOpenForActor(ctx context.Context, personID uuid.UUID) ([]PeriodStatus, error)
}
