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
	"github.com/hccdispo/dispoplan/internal/clock"
	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
	planperiodrepository "github.com/hccdispo/dispoplan/internal/planperiod/repository"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
	teamrepository "github.com/hccdispo/dispoplan/internal/team/repository"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   availabilitydomain.Service

	team   *teamdomain.Team
	actor  *teamdomain.Person
	period *planperioddomain.PlanPeriod
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

	svc := NewService(ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    fakeClock,
		Repo:     availabilityrepository.Provide(),
		TeamRepo: teamrepository.Provide(),
		PPRepo:   planperiodrepository.Provide(),
	})

	f := &fixture{db: db, clock: fakeClock, svc: svc}

	now := fakeClock.Now()
	project := &teamdomain.Project{ID: uuid.New(), Name: "project-" + uuid.NewString()[:8], Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(project).Error)

	f.team = &teamdomain.Team{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		Name:         "lighting",
		DispatcherID: uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(f.team).Error)

	f.actor = f.seedActor(t)

	f.period = &planperioddomain.PlanPeriod{
		ID:        uuid.New(),
		TeamID:    f.team.ID,
		Start:     day(2025, 6, 1),
		End:       day(2025, 6, 14),
		Deadline:  day(2025, 5, 25),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(f.period).Error)

	return f
}

func (f *fixture) seedActor(t *testing.T) *teamdomain.Person {
	t.Helper()
	now := f.clock.Now()
	suffix := uuid.NewString()[:8]
	person := &teamdomain.Person{
		ID:        uuid.New(),
		FirstName: "Jonas",
		LastName:  "Brandt",
		Email:     "jonas." + suffix + "@example.org",
		Username:  "jonas-" + suffix,
		ProjectID: f.team.ProjectID,
		TeamID:    &f.team.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(person).Error)
	return person
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSubmitReplacesEntriesWholesale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.Submit(ctx, f.actor.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
		{Day: day(2025, 6, 3), TimeOfDay: availabilitydomain.TimeOfDayWholeDay},
	}, "first answer")
	require.NoError(t, err)

	err = f.svc.Submit(ctx, f.actor.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 9), TimeOfDay: availabilitydomain.TimeOfDayEvening},
	}, "revised answer")
	require.NoError(t, err)

	entries, err := f.svc.Entries(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Day.Equal(day(2025, 6, 9)))
	assert.Equal(t, availabilitydomain.TimeOfDayEvening, entries[0].TimeOfDay)

	notes, err := f.svc.Notes(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	assert.Equal(t, "revised answer", notes)
}

func TestSubmitDeduplicatesEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.Submit(ctx, f.actor.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	require.NoError(t, err)

	entries, err := f.svc.Entries(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSubmitRejectsDayOutsidePeriod(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Submit(context.Background(), f.actor.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 20), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	assert.ErrorIs(t, err, availabilitydomain.ErrDayOutsidePeriod)
}

func TestSubmitRejectsClosedPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Exec(`UPDATE plan_periods SET closed = 1 WHERE id = ?`, f.period.ID).Error)

	err := f.svc.Submit(ctx, f.actor.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	assert.ErrorIs(t, err, availabilitydomain.ErrPeriodClosed)
}

func TestSubmitRejectsActorFromOtherTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	outsider := f.seedActor(t)
	require.NoError(t, f.db.Exec(`UPDATE persons SET team_id = NULL WHERE id = ?`, outsider.ID).Error)

	err := f.svc.Submit(ctx, outsider.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	assert.ErrorIs(t, err, availabilitydomain.ErrPersonNotAssigned)
}

func TestToggleIsSelfInverse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	present, err := f.svc.Toggle(ctx, f.actor.ID, day(2025, 6, 5), availabilitydomain.TimeOfDayAfternoon)
	require.NoError(t, err)
	assert.True(t, present)

	entries, err := f.svc.Entries(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	present, err = f.svc.Toggle(ctx, f.actor.ID, day(2025, 6, 5), availabilitydomain.TimeOfDayAfternoon)
	require.NoError(t, err)
	assert.False(t, present)

	entries, err = f.svc.Entries(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToggleOutsideAnyPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Toggle(context.Background(), f.actor.ID, day(2025, 8, 1), availabilitydomain.TimeOfDayMorning)
	assert.ErrorIs(t, err, availabilitydomain.ErrNoPeriodForDay)
}

func TestNonResponders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withEntries := f.seedActor(t)
	notesOnly := f.seedActor(t)
	silent := f.seedActor(t)
	emptyResponse := f.actor

	err := f.svc.Submit(ctx, withEntries.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	require.NoError(t, err)

	// Notes without any entries still count as a response.
	require.NoError(t, f.svc.UpdateNotes(ctx, notesOnly.ID, f.period.ID, "not in the country"))

	// An availability row with neither notes nor entries does not.
	err = f.svc.Submit(ctx, emptyResponse.ID, f.period.ID, nil, "")
	require.NoError(t, err)

	missing, err := f.svc.NonResponders(ctx, f.period.ID)
	require.NoError(t, err)

	ids := make(map[uuid.UUID]bool, len(missing))
	for _, person := range missing {
		ids[person.ID] = true
	}
	assert.Len(t, missing, 2)
	assert.True(t, ids[silent.ID])
	assert.True(t, ids[emptyResponse.ID])
	assert.False(t, ids[withEntries.ID])
	assert.False(t, ids[notesOnly.ID])
}

func TestIsFilledInIgnoresNotesOnlyResponse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	filled, err := f.svc.IsFilledIn(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	assert.False(t, filled)

	require.NoError(t, f.svc.UpdateNotes(ctx, f.actor.ID, f.period.ID, "maybe"))
	filled, err = f.svc.IsFilledIn(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	assert.False(t, filled)

	err = f.svc.Submit(ctx, f.actor.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "maybe")
	require.NoError(t, err)

	filled, err = f.svc.IsFilledIn(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	assert.True(t, filled)
}

func TestClearForPersonOpenPeriodsKeepsClosedOnes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := f.clock.Now()
	closed := &planperioddomain.PlanPeriod{
		ID:        uuid.New(),
		TeamID:    f.team.ID,
		Start:     day(2025, 5, 1),
		End:       day(2025, 5, 14),
		Deadline:  day(2025, 4, 25),
		Closed:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(closed).Error)
	require.NoError(t, f.db.Create(&availabilitydomain.Availability{
		ID:           uuid.New(),
		PlanPeriodID: closed.ID,
		PersonID:     f.actor.ID,
		Notes:        "archived answer",
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error)

	err := f.svc.Submit(ctx, f.actor.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: day(2025, 6, 2), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "open answer")
	require.NoError(t, err)

	require.NoError(t, f.svc.ClearForPersonOpenPeriods(ctx, f.actor.ID))

	entries, err := f.svc.Entries(ctx, f.actor.ID, f.period.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	notes, err := f.svc.Notes(ctx, f.actor.ID, closed.ID)
	require.NoError(t, err)
	assert.Equal(t, "archived answer", notes)
}

func TestParseTimeOfDayLegacyCodes(t *testing.T) {
	for in, want := range map[string]availabilitydomain.TimeOfDay{
		"v":         availabilitydomain.TimeOfDayMorning,
		"n":         availabilitydomain.TimeOfDayAfternoon,
		"g":         availabilitydomain.TimeOfDayWholeDay,
		"a":         availabilitydomain.TimeOfDayEvening,
		"morning":   availabilitydomain.TimeOfDayMorning,
		"whole_day": availabilitydomain.TimeOfDayWholeDay,
	} {
		got, err := availabilitydomain.ParseTimeOfDay(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := availabilitydomain.ParseTimeOfDay("midnight")
	assert.ErrorIs(t, err, availabilitydomain.ErrInvalidTimeOfDay)
}
