package notify

import (
	"context"
	"errors"
	"strings"
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
	planperiodservice "github.com/hccdispo/dispoplan/internal/planperiod/service"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
	teamrepository "github.com/hccdispo/dispoplan/internal/team/repository"
	teamservice "github.com/hccdispo/dispoplan/internal/team/service"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type capturingProvider struct {
	mails []sentMail
	err   error
}

func (p *capturingProvider) Send(ctx context.Context, to []string, subject, body string) error {
	if p.err != nil {
		return p.err
	}
	p.mails = append(p.mails, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (p *capturingProvider) mailsTo(address string) []sentMail {
	var out []sentMail
	for _, mail := range p.mails {
		for _, to := range mail.to {
			if to == address {
				out = append(out, mail)
			}
		}
	}
	return out
}

type fixture struct {
	db       *gorm.DB
	clock    *clock.FakeClock
	provider *capturingProvider
	svc      *Service
	availSvc availabilitydomain.Service

	team       *teamdomain.Team
	dispatcher *teamdomain.Person
	period     *planperioddomain.PlanPeriod
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
	teamRepo := teamrepository.Provide()
	ppRepo := planperiodrepository.Provide()

	availSvc := availabilityservice.NewService(availabilityservice.ServiceParam{
		DB:       db,
		Log:      log,
		Clock:    fakeClock,
		Repo:     availabilityrepository.Provide(),
		TeamRepo: teamRepo,
		PPRepo:   ppRepo,
	})
	teamSvc := teamservice.NewService(teamservice.ServiceParam{
		DB:      db,
		Log:     log,
		Clock:   fakeClock,
		Repo:    teamRepo,
		Avaisvc: availSvc,
	})
	ppSvc := planperiodservice.NewService(planperiodservice.ServiceParam{
		DB:       db,
		Log:      log,
		Clock:    fakeClock,
		Repo:     ppRepo,
		TeamRepo: teamRepo,
		Avaisvc:  availSvc,
	})

	provider := &capturingProvider{}
	svc := NewService(ServiceParam{
		Log:      log,
		Provider: provider,
		PPsvc:    ppSvc,
		Avaisvc:  availSvc,
		Teamsvc:  teamSvc,
	})

	f := &fixture{db: db, clock: fakeClock, provider: provider, svc: svc, availSvc: availSvc}

	now := fakeClock.Now()
	project := &teamdomain.Project{ID: uuid.New(), Name: "tour 2025", Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(project).Error)

	f.dispatcher = &teamdomain.Person{
		ID:        uuid.New(),
		FirstName: "Dora",
		LastName:  "Stein",
		Email:     "dora@example.org",
		Username:  "dora",
		ProjectID: project.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(f.dispatcher).Error)

	f.team = &teamdomain.Team{
		ID:           uuid.New(),
		ProjectID:    project.ID,
		Name:         "stage crew",
		DispatcherID: f.dispatcher.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(f.team).Error)

	f.period = &planperioddomain.PlanPeriod{
		ID:        uuid.New(),
		TeamID:    f.team.ID,
		Start:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		Deadline:  time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(f.period).Error)

	return f
}

func (f *fixture) seedActor(t *testing.T, firstName, email string) *teamdomain.Person {
	t.Helper()
	now := f.clock.Now()
	person := &teamdomain.Person{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  "Huber",
		Email:     email,
		Username:  strings.SplitN(email, "@", 2)[0],
		ProjectID: f.team.ProjectID,
		TeamID:    &f.team.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(person).Error)
	return person
}

func TestSendDeadlineReminders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	responder := f.seedActor(t, "Rita", "rita@example.org")
	f.seedActor(t, "Sam", "sam@example.org")

	err := f.availSvc.Submit(ctx, responder.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.SendDeadlineReminders(ctx, f.period.ID))

	reminders := f.provider.mailsTo("sam@example.org")
	require.Len(t, reminders, 1)
	assert.Equal(t, "Reminder: submit your availability", reminders[0].subject)
	assert.Contains(t, reminders[0].body, "Hello Sam Huber")
	assert.Contains(t, reminders[0].body, "01.06.2025 - 14.06.2025")

	assert.Empty(t, f.provider.mailsTo("rita@example.org"))

	confirmations := f.provider.mailsTo("dora@example.org")
	require.Len(t, confirmations, 1)
	assert.Equal(t, "Reminders sent", confirmations[0].subject)
	assert.Contains(t, confirmations[0].body, "Recipients: Sam Huber")
}

func TestSendDeadlineRemindersEveryoneResponded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	responder := f.seedActor(t, "Rita", "rita@example.org")
	err := f.availSvc.Submit(ctx, responder.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), TimeOfDay: availabilitydomain.TimeOfDayMorning},
	}, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.SendDeadlineReminders(ctx, f.period.ID))

	require.Len(t, f.provider.mails, 1)
	assert.Contains(t, f.provider.mails[0].body, "nobody, everyone has responded")
}

func TestSendClosedPeriodDistribution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rita := f.seedActor(t, "Rita", "rita@example.org")
	f.seedActor(t, "Sam", "sam@example.org")

	err := f.availSvc.Submit(ctx, rita.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), TimeOfDay: availabilitydomain.TimeOfDayMorning},
		{Day: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), TimeOfDay: availabilitydomain.TimeOfDayEvening},
	}, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.SendClosedPeriodDistribution(ctx, f.period.ID))

	actorMails := f.provider.mailsTo("rita@example.org")
	require.Len(t, actorMails, 1)
	assert.Contains(t, actorMails[0].subject, "Your availability")
	assert.Contains(t, actorMails[0].body, "02.06.2025 (morning)")
	assert.Contains(t, actorMails[0].body, "03.06.2025 (evening)")

	// Actors who never answered get nothing on close.
	assert.Empty(t, f.provider.mailsTo("sam@example.org"))

	dispatcherMails := f.provider.mailsTo("dora@example.org")
	require.Len(t, dispatcherMails, 1)
	assert.Contains(t, dispatcherMails[0].subject, "team stage crew")
	assert.Contains(t, dispatcherMails[0].body, "Rita Huber: 02.06. (morning), 03.06. (evening)")
}

func TestSendSubmitConfirmationSkipsUnfilledPeriods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rita := f.seedActor(t, "Rita", "rita@example.org")

	now := f.clock.Now()
	second := &planperioddomain.PlanPeriod{
		ID:        uuid.New(),
		TeamID:    f.team.ID,
		Start:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Deadline:  time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(second).Error)

	err := f.availSvc.Submit(ctx, rita.ID, f.period.ID, []availabilitydomain.Entry{
		{Day: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), TimeOfDay: availabilitydomain.TimeOfDayWholeDay},
	}, "call me for extra shifts")
	require.NoError(t, err)

	require.NoError(t, f.svc.SendSubmitConfirmation(ctx, rita.ID))

	mails := f.provider.mailsTo("rita@example.org")
	require.Len(t, mails, 1)
	assert.Equal(t, "Your availability was received", mails[0].subject)
	assert.Contains(t, mails[0].body, "02.06.2025 (whole day)")
	assert.Contains(t, mails[0].body, "Notes: call me for extra shifts")
	assert.NotContains(t, mails[0].body, "15.06.2025")
}

func TestSendDeadlineRemindersProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.seedActor(t, "Sam", "sam@example.org")
	f.provider.err = errors.New("connection refused")

	err := f.svc.SendDeadlineReminders(context.Background(), f.period.ID)
	assert.Error(t, err)
}
