package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
	availabilityrepository "github.com/hccdispo/dispoplan/internal/availability/repository"
	availabilityservice "github.com/hccdispo/dispoplan/internal/availability/service"
	"github.com/hccdispo/dispoplan/internal/clock"
	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
	planperiodrepository "github.com/hccdispo/dispoplan/internal/planperiod/repository"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
	teamrepository "github.com/hccdispo/dispoplan/internal/team/repository"
)

type fixture struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	svc      planperioddomain.Service
	availSvc availabilitydomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&teamdomain.Project{},
		&teamdomain.Person{},
		&teamdomain.Team{},
		&planperioddomain.PlanPeriod{},
		&availabilitydomain.Availability{},
		&availabilitydomain.AvailDay{},
	))

	fakeClock := clock.NewFakeClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	ppRepo := planperiodrepository.Provide()
	teamRepo := teamrepository.Provide()

	availSvc := availabilityservice.NewService(availabilityservice.ServiceParam{
		DB:       db,
		Log:      log,
		Clock:    fakeClock,
		Repo:     availabilityrepository.Provide(),
		TeamRepo: teamRepo,
		PPRepo:   ppRepo,
	})

	svc := NewService(ServiceParam{
		DB:       db,
		Log:      log,
		Clock:    fakeClock,
		Repo:     ppRepo,
		TeamRepo: teamRepo,
		Avaisvc:  availSvc,
	})

	return &fixture{db: db, clock: fakeClock, svc: svc, availSvc: availSvc}
}

func (f *fixture) seedTeam(t *testing.T) *teamdomain.Team {
	t.Helper()
	now := f.clock.Now()
	project := &teamdomain.Project{ID: uuid.New(), Name: "project-" + uuid.NewString()[:8], Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(project).Error)
	team := &teamdomain.Team{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		Name:         "stage crew",
		DispatcherID: uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, f.db.Create(team).Error)
	return team
}

func (f *fixture) seedActor(t *testing.T, team *teamdomain.Team) *teamdomain.Person {
	t.Helper()
	now := f.clock.Now()
	suffix := uuid.NewString()[:8]
	person := &teamdomain.Person{
		ID:        uuid.New(),
		FirstName: "Mara",
		LastName:  "Vogel",
		Email:     "mara." + suffix + "@example.org",
		Username:  "mara-" + suffix,
		ProjectID: team.ProjectID,
		TeamID:    &team.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(person).Error)
	return person
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateDefaultStartFollowsLastEnd(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	ctx := context.Background()

	start := day(2025, 6, 1)
	_, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		End:      day(2025, 6, 30),
		Deadline: day(2025, 6, 8),
	})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 15), second.Start)
	assert.Equal(t, day(2025, 6, 30), second.End)
}

func TestCreateExplicitStartMustFollowExistingPeriods(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	ctx := context.Background()

	start := day(2025, 6, 1)
	_, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)

	for _, bad := range []time.Time{day(2025, 6, 10), day(2025, 6, 14)} {
		badStart := bad
		_, err = f.svc.Create(ctx, planperioddomain.CreateRequest{
			TeamID:   team.ID,
			Start:    &badStart,
			End:      day(2025, 6, 30),
			Deadline: day(2025, 6, 8),
		})
		assert.ErrorIs(t, err, planperioddomain.ErrStartOverlaps)
	}

	goodStart := day(2025, 6, 20)
	period, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &goodStart,
		End:      day(2025, 6, 30),
		Deadline: day(2025, 6, 8),
	})
	require.NoError(t, err)
	assert.Equal(t, goodStart, period.Start)
}

func TestCreateFirstPeriodRequiresExplicitStart(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)

	_, err := f.svc.Create(context.Background(), planperioddomain.CreateRequest{
		TeamID:   team.ID,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	assert.ErrorIs(t, err, planperioddomain.ErrStartRequired)
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)

	start := day(2025, 6, 14)
	_, err := f.svc.Create(context.Background(), planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 1),
		Deadline: day(2025, 5, 25),
	})
	assert.ErrorIs(t, err, planperioddomain.ErrEndBeforeStart)
}

func TestCreateAcceptsDeadlineOutsideRange(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)

	// The deadline is not required to fall inside [start, end]; dispatchers
	// routinely close submissions weeks before the period begins.
	start := day(2025, 6, 1)
	period, err := f.svc.Create(context.Background(), planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 4, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, day(2025, 4, 1), period.Deadline)
}

func TestCreateWithExplicitID(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)

	id := uuid.New()
	start := day(2025, 6, 1)
	period, err := f.svc.Create(context.Background(), planperioddomain.CreateRequest{
		ID:       &id,
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)
	assert.Equal(t, id, period.ID)
}

func TestCreateUnknownTeam(t *testing.T) {
	f := newFixture(t)

	start := day(2025, 6, 1)
	_, err := f.svc.Create(context.Background(), planperioddomain.CreateRequest{
		TeamID:   uuid.New(),
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	assert.ErrorIs(t, err, teamdomain.ErrTeamNotFound)
}

func TestUpdateRejectsReopeningClosedPeriod(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	ctx := context.Background()

	start := day(2025, 6, 1)
	period, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)

	result, err := f.svc.Update(ctx, planperioddomain.UpdateRequest{
		ID:       period.ID,
		Start:    period.Start,
		End:      period.End,
		Deadline: period.Deadline,
		Closed:   true,
	})
	require.NoError(t, err)
	assert.True(t, result.ClosedNow)

	_, err = f.svc.Update(ctx, planperioddomain.UpdateRequest{
		ID:       period.ID,
		Start:    period.Start,
		End:      period.End,
		Deadline: period.Deadline,
		Closed:   false,
	})
	assert.ErrorIs(t, err, planperioddomain.ErrPeriodReopened)
}

func TestUpdateShrinkDiscardsEntriesOutsideRange(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	actor := f.seedActor(t, team)
	ctx := context.Background()

	start := day(2025, 6, 1)
	period, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)

	err = f.availSvc.Submit(ctx, actor.ID, period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
		{Day: day(2025, 6, 7), TimeOfDay: availabilitydomain.TimeOfDayWholeDay},
		{Day: day(2025, 6, 13), TimeOfDay: availabilitydomain.TimeOfDayEvening},
	}, "")
	require.NoError(t, err)

	result, err := f.svc.Update(ctx, planperioddomain.UpdateRequest{
		ID:       period.ID,
		Start:    day(2025, 6, 5),
		End:      day(2025, 6, 10),
		Deadline: period.Deadline,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.RemovedEntries)

	entries, err := f.availSvc.Entries(ctx, actor.ID, period.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Day.Equal(day(2025, 6, 7)), "kept entry day %v", entries[0].Day)
}

func TestDeleteRemovesCollectedAvailability(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	actor := f.seedActor(t, team)
	ctx := context.Background()

	start := day(2025, 6, 1)
	period, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)

	err = f.availSvc.Submit(ctx, actor.ID, period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "in town all month")
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, period.ID))

	_, err = f.svc.Get(ctx, period.ID)
	assert.ErrorIs(t, err, planperioddomain.ErrPeriodNotFound)

	var availRows, dayRows int64
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM availabilities`).Scan(&availRows).Error)
	require.NoError(t, f.db.Raw(`SELECT COUNT(*) FROM avail_days`).Scan(&dayRows).Error)
	assert.Zero(t, availRows)
	assert.Zero(t, dayRows)
}

func TestLastPeriodEnd(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	ctx := context.Background()

	end, err := f.svc.LastPeriodEnd(ctx, team.ID)
	require.NoError(t, err)
	assert.Nil(t, end)

	start := day(2025, 6, 1)
	_, err = f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)

	end, err = f.svc.LastPeriodEnd(ctx, team.ID)
	require.NoError(t, err)
	require.NotNil(t, end)
	assert.Equal(t, day(2025, 6, 14), planperioddomain.DateOnly(*end))
}

func TestListOpenForActorFlagsFilledIn(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	actor := f.seedActor(t, team)
	ctx := context.Background()

	start := day(2025, 6, 1)
	first, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		Start:    &start,
		End:      day(2025, 6, 14),
		Deadline: day(2025, 5, 25),
	})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, planperioddomain.CreateRequest{
		TeamID:   team.ID,
		End:      day(2025, 6, 30),
		Deadline: day(2025, 6, 8),
	})
	require.NoError(t, err)

	err = f.availSvc.Submit(ctx, actor.ID, first.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	require.NoError(t, err)

	// Notes alone do not make the second period filled in.
	require.NoError(t, f.availSvc.UpdateNotes(ctx, actor.ID, second.ID, "on tour until the 20th"))

	statuses, err := f.svc.ListOpenForActor(ctx, actor.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byID := make(map[uuid.UUID]bool, len(statuses))
	for _, status := range statuses {
		byID[status.Period.ID] = status.FilledIn
	}
	assert.True(t, byID[first.ID])
	assert.False(t, byID[second.ID])
}

func TestListOpenForActorWithoutTeam(t *testing.T) {
	f := newFixture(t)
	team := f.seedTeam(t)
	actor := f.seedActor(t, team)
	ctx := context.Background()

	require.NoError(t, f.db.Exec(`UPDATE persons SET team_id = NULL WHERE id = ?`, actor.ID).Error)

	statuses, err := f.svc.ListOpenForActor(ctx, actor.ID)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}
