package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
	"github.com/hccdispo/dispoplan/internal/clock"
	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	repo     planperioddomain.Repository
	teamRepo teamdomain.Repository
	avaisvc  availabilitydomain.Service
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     planperioddomain.Repository
	TeamRepo teamdomain.Repository

	Avaisvc availabilitydomain.Service
}

func NewService(p ServiceParam) planperioddomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("planperiod.service"),
		clock: p.Clock,

		repo:     p.Repo,
		teamRepo: p.TeamRepo,
		avaisvc:  p.Avaisvc,
	}
}

// Create implements domain.Service. When no start day is given the new
// period begins the day after the team's latest period end. An explicit
// start must lie after every existing period of the team.
func (s *Service) Create(ctx context.Context, req planperioddomain.CreateRequest) (*planperioddomain.PlanPeriod, error) {
	if req.End.IsZero() {
		return nil, planperioddomain.ErrEndRequired
	}
	if req.Deadline.IsZero() {
		return nil, planperioddomain.ErrDeadlineRequired
	}

	team, err := s.teamRepo.FindTeamByID(ctx, s.db, req.TeamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamdomain.ErrTeamNotFound
	}

	lastEnd, err := s.repo.MaxEndForTeam(ctx, s.db, req.TeamID)
	if err != nil {
		return nil, err
	}

	var start time.Time
	switch {
	case req.Start != nil:
		start = planperioddomain.DateOnly(*req.Start)
		if lastEnd != nil && !start.After(planperioddomain.DateOnly(*lastEnd)) {
			return nil, planperioddomain.ErrStartOverlaps
		}
	case lastEnd != nil:
		start = planperioddomain.DateOnly(*lastEnd).AddDate(0, 0, 1)
	default:
		return nil, planperioddomain.ErrStartRequired
	}

	end := planperioddomain.DateOnly(req.End)
	if end.Before(start) {
		return nil, planperioddomain.ErrEndBeforeStart
	}

	id := uuid.New()
	if req.ID != nil {
		id = *req.ID
	}

	now := s.clock.Now()
	period := &planperioddomain.PlanPeriod{
		ID:        id,
		TeamID:    req.TeamID,
		Start:     start,
		End:       end,
		Deadline:  planperioddomain.DateOnly(req.Deadline),
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, period); err != nil {
		return nil, err
	}

	s.log.Info("planperiod.created",
		zap.String("plan_period_id", period.ID.String()),
		zap.String("team_id", period.TeamID.String()),
		zap.Time("start", period.Start),
		zap.Time("end", period.End),
		zap.Time("deadline", period.Deadline),
	)

	return period, nil
}

// Update implements domain.Service. A closed period stays closed.
// Shrinking the range discards availability entries that fell out of it.
func (s *Service) Update(ctx context.Context, req planperioddomain.UpdateRequest) (planperioddomain.UpdateResult, error) {
	period, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return planperioddomain.UpdateResult{}, err
	}
	if period == nil {
		return planperioddomain.UpdateResult{}, planperioddomain.ErrPeriodNotFound
	}
	if period.Closed && !req.Closed {
		return planperioddomain.UpdateResult{}, planperioddomain.ErrPeriodReopened
	}

	start := planperioddomain.DateOnly(req.Start)
	end := planperioddomain.DateOnly(req.End)
	deadline := planperioddomain.DateOnly(req.Deadline)
	if end.Before(start) {
		return planperioddomain.UpdateResult{}, planperioddomain.ErrEndBeforeStart
	}

	result := planperioddomain.UpdateResult{
		ClosedNow:       req.Closed && !period.Closed,
		DeadlineChanged: !deadline.Equal(period.Deadline),
	}

	shrunk := start.After(period.Start) || end.Before(period.End)

	period.Start = start
	period.End = end
	period.Deadline = deadline
	period.Notes = req.Notes
	period.Closed = req.Closed
	period.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, s.db, period); err != nil {
		return planperioddomain.UpdateResult{}, err
	}

	if shrunk {
		removed, err := s.avaisvc.ClearEntriesOutsideRange(ctx, period.ID, start, end)
		if err != nil {
			return planperioddomain.UpdateResult{}, err
		}
		result.RemovedEntries = removed
		s.log.Info("planperiod.shrunk",
			zap.String("plan_period_id", period.ID.String()),
			zap.Int64("removed_entries", removed),
		)
	}

	result.Period = period
	return result, nil
}

// Delete implements domain.Service. Availability collected for the
// period goes with it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	period, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if period == nil {
		return planperioddomain.ErrPeriodNotFound
	}

	if err := s.avaisvc.DeleteForPeriod(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, s.db, id); err != nil {
		return err
	}

	s.log.Info("planperiod.deleted", zap.String("plan_period_id", id.String()))
	return nil
}

// Get implements domain.Service.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*planperioddomain.PlanPeriod, error) {
	period, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, planperioddomain.ErrPeriodNotFound
	}
	return period, nil
}

// ListForTeam implements domain.Service.
func (s *Service) ListForTeam(ctx context.Context, teamID uuid.UUID) ([]planperioddomain.PlanPeriod, error) {
	return s.repo.FindByTeam(ctx, s.db, teamID)
}

// LastPeriodEnd implements domain.Service.
func (s *Service) LastPeriodEnd(ctx context.Context, teamID uuid.UUID) (*time.Time, error) {
	return s.repo.MaxEndForTeam(ctx, s.db, teamID)
}

// ListOpenForActor implements domain.Service. An actor without a team
// has nothing to fill in.
func (s *Service) ListOpenForActor(ctx context.Context, personID uuid.UUID) ([]planperioddomain.PeriodStatus, error) {
	person, err := s.teamRepo.FindPersonByID(ctx, s.db, personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, teamdomain.ErrPersonNotFound
	}
	if person.TeamID == nil {
		return []planperioddomain.PeriodStatus{}, nil
	}

	periods, err := s.repo.FindOpenByTeam(ctx, s.db, *person.TeamID)
	if err != nil {
		return nil, err
	}

	statuses := make([]planperioddomain.PeriodStatus, 0, len(periods))
	for _, period := range periods {
		filled, err := s.avaisvc.IsFilledIn(ctx, personID, period.ID)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, planperioddomain.PeriodStatus{Period: period, FilledIn: filled})
	}
	return statuses, nil
}
