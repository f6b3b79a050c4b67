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
	"github.com/hccdispo/dispoplan/pkg/repository"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	repo     availabilitydomain.Repository
	teamRepo teamdomain.Repository
	ppRepo   planperioddomain.Repository

	entryStore repository.Repository[availabilitydomain.AvailDay]
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	Repo     availabilitydomain.Repository
	TeamRepo teamdomain.Repository
	PPRepo   planperioddomain.Repository
}

func NewService(p ServiceParam) availabilitydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("availability.service"),
		clock: p.Clock,

		repo:     p.Repo,
		teamRepo: p.TeamRepo,
		ppRepo:   p.PPRepo,

		entryStore: repository.ProvideStore[availabilitydomain.AvailDay](p.DB),
	}
}

// Submit implements domain.Service. The entry set is replaced wholesale;
// resubmitting is how actors revise earlier answers.
func (s *Service) Submit(ctx context.Context, personID, planPeriodID uuid.UUID, entries []availabilitydomain.Entry, notes string) error {
	period, _, err := s.resolve(ctx, personID, planPeriodID)
	if err != nil {
		return err
	}

	days := make([]availabilitydomain.Entry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if !entry.TimeOfDay.Valid() {
			return availabilitydomain.ErrInvalidTimeOfDay
		}
		day := planperioddomain.DateOnly(entry.Day)
		if day.Before(period.Start) || day.After(period.End) {
			return availabilitydomain.ErrDayOutsidePeriod
		}
		key := day.Format(time.DateOnly) + "/" + string(entry.TimeOfDay)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, availabilitydomain.Entry{Day: day, TimeOfDay: entry.TimeOfDay})
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		avail, err := s.repo.FindByPersonPeriod(ctx, tx, personID, planPeriodID)
		if err != nil {
			return err
		}
		if avail == nil {
			avail = &availabilitydomain.Availability{
				ID:           uuid.New(),
				PlanPeriodID: planPeriodID,
				PersonID:     personID,
				Notes:        notes,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.repo.Insert(ctx, tx, avail); err != nil {
				return err
			}
		} else if err := s.repo.UpdateNotes(ctx, tx, avail.ID, notes, now); err != nil {
			return err
		}

		if err := s.repo.DeleteEntries(ctx, tx, avail.ID); err != nil {
			return err
		}
		for _, day := range days {
			entry := &availabilitydomain.AvailDay{
				ID:             uuid.New(),
				AvailabilityID: avail.ID,
				Day:            day.Day,
				TimeOfDay:      day.TimeOfDay,
				CreatedAt:      now,
			}
			if err := s.repo.InsertEntry(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("availability.submitted",
		zap.String("person_id", personID.String()),
		zap.String("plan_period_id", planPeriodID.String()),
		zap.Int("entries", len(days)),
	)
	return nil
}

// Toggle implements domain.Service. The period is found from the day, so
// clients flipping single calendar cells need no period id.
func (s *Service) Toggle(ctx context.Context, personID uuid.UUID, day time.Time, tod availabilitydomain.TimeOfDay) (bool, error) {
	if !tod.Valid() {
		return false, availabilitydomain.ErrInvalidTimeOfDay
	}

	person, err := s.teamRepo.FindPersonByID(ctx, s.db, personID)
	if err != nil {
		return false, err
	}
	if person == nil {
		return false, teamdomain.ErrPersonNotFound
	}
	if person.TeamID == nil {
		return false, availabilitydomain.ErrPersonNotAssigned
	}

	day = planperioddomain.DateOnly(day)
	period, err := s.ppRepo.FindCoveringDay(ctx, s.db, *person.TeamID, day)
	if err != nil {
		return false, err
	}
	if period == nil {
		return false, availabilitydomain.ErrNoPeriodForDay
	}

	now := s.clock.Now()
	var present bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		avail, err := s.repo.FindByPersonPeriod(ctx, tx, personID, period.ID)
		if err != nil {
			return err
		}
		if avail == nil {
			avail = &availabilitydomain.Availability{
				ID:           uuid.New(),
				PlanPeriodID: period.ID,
				PersonID:     personID,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.repo.Insert(ctx, tx, avail); err != nil {
				return err
			}
		}

		entry, err := s.repo.FindEntry(ctx, tx, avail.ID, day, tod)
		if err != nil {
			return err
		}
		if entry != nil {
			present = false
			return s.repo.DeleteEntry(ctx, tx, entry.ID)
		}
		present = true
		return s.repo.InsertEntry(ctx, tx, &availabilitydomain.AvailDay{
			ID:             uuid.New(),
			AvailabilityID: avail.ID,
			Day:            day,
			TimeOfDay:      tod,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return false, err
	}

	s.log.Debug("availability.toggled",
		zap.String("person_id", personID.String()),
		zap.String("plan_period_id", period.ID.String()),
		zap.Time("day", day),
		zap.String("time_of_day", string(tod)),
		zap.Bool("present", present),
	)
	return present, nil
}

// Entries implements domain.Service.
func (s *Service) Entries(ctx context.Context, personID, planPeriodID uuid.UUID) ([]availabilitydomain.AvailDay, error) {
	avail, err := s.repo.FindByPersonPeriod(ctx, s.db, personID, planPeriodID)
	if err != nil {
		return nil, err
	}
	if avail == nil {
		return []availabilitydomain.AvailDay{}, nil
	}
	return s.repo.EntriesByAvailability(ctx, s.db, avail.ID)
}

// EntriesForPeriod implements domain.Service.
func (s *Service) EntriesForPeriod(ctx context.Context, planPeriodID uuid.UUID) ([]availabilitydomain.PersonEntries, error) {
	avails, err := s.repo.FindByPeriod(ctx, s.db, planPeriodID)
	if err != nil {
		return nil, err
	}

	result := make([]availabilitydomain.PersonEntries, 0, len(avails))
	for _, avail := range avails {
		person, err := s.teamRepo.FindPersonByID(ctx, s.db, avail.PersonID)
		if err != nil {
			return nil, err
		}
		if person == nil {
			continue
		}
		entries, err := s.repo.EntriesByAvailability(ctx, s.db, avail.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, availabilitydomain.PersonEntries{
			Person: *person,
			Notes:  avail.Notes,
			Days:   entries,
		})
	}
	return result, nil
}

// Notes implements domain.Service.
func (s *Service) Notes(ctx context.Context, personID, planPeriodID uuid.UUID) (string, error) {
	avail, err := s.repo.FindByPersonPeriod(ctx, s.db, personID, planPeriodID)
	if err != nil {
		return "", err
	}
	if avail == nil {
		return "", nil
	}
	return avail.Notes, nil
}

// UpdateNotes implements domain.Service.
func (s *Service) UpdateNotes(ctx context.Context, personID, planPeriodID uuid.UUID, notes string) error {
	_, _, err := s.resolve(ctx, personID, planPeriodID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	avail, err := s.repo.FindByPersonPeriod(ctx, s.db, personID, planPeriodID)
	if err != nil {
		return err
	}
	if avail == nil {
		return s.repo.Insert(ctx, s.db, &availabilitydomain.Availability{
			ID:           uuid.New(),
			PlanPeriodID: planPeriodID,
			PersonID:     personID,
			Notes:        notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return s.repo.UpdateNotes(ctx, s.db, avail.ID, notes, now)
}

// NonResponders implements domain.Service.
func (s *Service) NonResponders(ctx context.Context, planPeriodID uuid.UUID) ([]teamdomain.Person, error) {
	period, err := s.ppRepo.FindByID(ctx, s.db, planPeriodID)
	if err != nil {
		return nil, err
	}
	if period == nil {
		return nil, planperioddomain.ErrPeriodNotFound
	}

	actors, err := s.teamRepo.FindActorsByTeam(ctx, s.db, period.TeamID)
	if err != nil {
		return nil, err
	}

	missing := make([]teamdomain.Person, 0)
	for _, actor := range actors {
		avail, err := s.repo.FindByPersonPeriod(ctx, s.db, actor.ID, planPeriodID)
		if err != nil {
			return nil, err
		}
		if avail == nil {
			missing = append(missing, actor)
			continue
		}
		if avail.Notes != "" {
			continue
		}
		count, err := s.entryStore.Count(ctx, &availabilitydomain.AvailDay{AvailabilityID: avail.ID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			missing = append(missing, actor)
		}
	}
	return missing, nil
}

// IsFilledIn implements domain.Service.
func (s *Service) IsFilledIn(ctx context.Context, personID, planPeriodID uuid.UUID) (bool, error) {
	avail, err := s.repo.FindByPersonPeriod(ctx, s.db, personID, planPeriodID)
	if err != nil {
		return false, err
	}
	if avail == nil {
		return false, nil
	}
	count, err := s.entryStore.Count(ctx, &availabilitydomain.AvailDay{AvailabilityID: avail.ID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearEntriesOutsideRange implements domain.Service.
func (s *Service) ClearEntriesOutsideRange(ctx context.Context, planPeriodID uuid.UUID, start, end time.Time) (int64, error) {
	return s.repo.DeleteEntriesOutsideRange(ctx, s.db, planPeriodID,
		planperioddomain.DateOnly(start), planperioddomain.DateOnly(end))
}

// DeleteForPeriod implements domain.Service.
func (s *Service) DeleteForPeriod(ctx context.Context, planPeriodID uuid.UUID) error {
	return s.repo.DeleteByPeriod(ctx, s.db, planPeriodID)
}

// ClearForPersonOpenPeriods implements domain.Service.
func (s *Service) ClearForPersonOpenPeriods(ctx context.Context, personID uuid.UUID) error {
	return s.repo.DeleteForPersonOpenPeriods(ctx, s.db, personID)
}

// resolve checks that the period is open and the person is an actor of
// its team.
func (s *Service) resolve(ctx context.Context, personID, planPeriodID uuid.UUID) (*planperioddomain.PlanPeriod, *teamdomain.Person, error) {
	period, err := s.ppRepo.FindByID(ctx, s.db, planPeriodID)
	if err != nil {
		return nil, nil, err
	}
	if period == nil {
		return nil, nil, planperioddomain.ErrPeriodNotFound
	}
	if period.Closed {
		return nil, nil, availabilitydomain.ErrPeriodClosed
	}

	person, err := s.teamRepo.FindPersonByID(ctx, s.db, personID)
	if err != nil {
		return nil, nil, err
	}
	if person == nil {
		return nil, nil, teamdomain.ErrPersonNotFound
	}
	if person.TeamID == nil || *person.TeamID != period.TeamID {
		return nil, nil, availabilitydomain.ErrPersonNotAssigned
	}
	return period, person, nil
}
