package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/hccdispo/dispoplan/internal/clock"
	obsmetrics "github.com/hccdispo/dispoplan/internal/observability/metrics"
)

var ErrInvalidConfig = errors.New("reminder scheduler configuration is invalid")

// FireFunc runs the reminder for one planning period when its deadline
// arrives.
type FireFunc func(ctx context.Context, planPeriodID uuid.UUID) error

type Params struct {
	fx.In

	Log    *zap.Logger
	Store  Store
	Clock  clock.Clock
	GenID  *snowflake.Node
	Fire   FireFunc
	Config Config `optional:"true"`
}

// Scheduler keeps one pending deadline job per planning period, both in
// memory and in the reminder_jobs table. The table is the source of
// truth across restarts; the map is what the tick loop scans.
type Scheduler struct {
	log   *zap.Logger
	cfg   Config
	store Store
	clock clock.Clock
	genID *snowflake.Node
	fire  FireFunc
	loc   *time.Location

	mu     sync.Mutex
	jobs   map[uuid.UUID]time.Time
	firing map[uuid.UUID]struct{}
}

func New(p Params) (*Scheduler, error) {
	if p.Store == nil || p.Clock == nil || p.GenID == nil || p.Fire == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		log:    p.Log.Named("reminder.scheduler"),
		cfg:    cfg,
		store:  p.Store,
		clock:  p.Clock,
		genID:  p.GenID,
		fire:   p.Fire,
		loc:    loc,
		jobs:   make(map[uuid.UUID]time.Time),
		firing: make(map[uuid.UUID]struct{}),
	}, nil
}

// MidnightAt returns the start of the deadline day in the scheduler's
// timezone. The reminder opens the deadline day, so non-responders still
// have it to answer.
func (s *Scheduler) MidnightAt(deadline time.Time) time.Time {
	y, m, d := deadline.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

// Schedule registers or replaces the deadline job of a period.
func (s *Scheduler) Schedule(ctx context.Context, planPeriodID uuid.UUID, deadline time.Time) error {
	fireAt := s.MidnightAt(deadline)
	now := s.clock.Now()

	job := &ReminderJob{
		PlanPeriodID:  planPeriodID,
		FireAt:        fireAt,
		Kind:          KindDeadlineReminder,
		Args:          datatypes.JSONMap{"plan_period_id": planPeriodID.String()},
		SchemaVersion: jobSchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Upsert(ctx, job); err != nil {
		return err
	}

	s.mu.Lock()
	s.jobs[planPeriodID] = fireAt
	s.mu.Unlock()

	obsmetrics.IncJobScheduled()
	s.log.Info("reminder.scheduled",
		zap.String("plan_period_id", planPeriodID.String()),
		zap.Time("fire_at", fireAt),
	)
	return nil
}

// Cancel removes the deadline job of a period. Canceling a period that
// has no job is a no-op.
func (s *Scheduler) Cancel(ctx context.Context, planPeriodID uuid.UUID) error {
	if err := s.store.Delete(ctx, planPeriodID); err != nil {
		return err
	}

	s.mu.Lock()
	_, existed := s.jobs[planPeriodID]
	delete(s.jobs, planPeriodID)
	s.mu.Unlock()

	if existed {
		obsmetrics.IncJobCanceled()
		s.log.Info("reminder.canceled", zap.String("plan_period_id", planPeriodID.String()))
	}
	return nil
}

// RestoreAll loads persisted jobs into the tick loop. Called once on
// startup; jobs whose fire time passed while the service was down fire
// on the next tick.
func (s *Scheduler) RestoreAll(ctx context.Context) error {
	jobs, err := s.store.All(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	for _, job := range jobs {
		s.jobs[job.PlanPeriodID] = job.FireAt
	}
	s.mu.Unlock()

	obsmetrics.AddJobsRestored(len(jobs))
	s.log.Info("reminder.restored", zap.Int("jobs", len(jobs)))
	return nil
}

// Pending reports whether a job is registered for the period.
func (s *Scheduler) Pending(planPeriodID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[planPeriodID]
	return ok
}

// RunOnce fires every job whose time has come. Jobs that fail stay
// registered and are retried on the next tick.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	now := s.clock.Now()

	s.mu.Lock()
	due := make(map[uuid.UUID]time.Time)
	for id, fireAt := range s.jobs {
		if !fireAt.After(now) {
			due[id] = fireAt
		}
	}
	s.mu.Unlock()

	var err error
	for id, fireAt := range due {
		err = errors.Join(err, s.fireJob(ctx, id, fireAt, now))
	}
	return err
}

func (s *Scheduler) fireJob(ctx context.Context, planPeriodID uuid.UUID, fireAt, now time.Time) error {
	s.mu.Lock()
	if _, busy := s.firing[planPeriodID]; busy || len(s.firing) >= s.cfg.MaxInstances {
		s.mu.Unlock()
		obsmetrics.IncJobFired(obsmetrics.FireResultSkipped)
		return nil
	}
	s.firing[planPeriodID] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.firing, planPeriodID)
		s.mu.Unlock()
	}()

	runID := s.genID.Generate()
	log := s.log.With(
		zap.String("plan_period_id", planPeriodID.String()),
		zap.String("run_id", runID.String()),
	)

	if lag := now.Sub(fireAt); lag > s.cfg.MisfireGrace {
		obsmetrics.IncJobMisfired()
		log.Warn("reminder.misfired", zap.Duration("lag", lag))
	}

	start := s.clock.Now()
	fireErr := s.fire(ctx, planPeriodID)
	obsmetrics.ObserveFireDuration(time.Since(start))

	if fireErr != nil {
		obsmetrics.IncJobFired(obsmetrics.FireResultError)
		log.Warn("reminder.fire_failed", zap.Error(fireErr))
		return fireErr
	}

	if err := s.store.Delete(ctx, planPeriodID); err != nil {
		log.Warn("reminder.cleanup_failed", zap.Error(err))
	}
	s.mu.Lock()
	delete(s.jobs, planPeriodID)
	s.mu.Unlock()

	obsmetrics.IncJobFired(obsmetrics.FireResultOK)
	log.Info("reminder.fired", zap.Time("fire_at", fireAt))
	return nil
}

// RunForever ticks until the context is canceled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("reminder run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
