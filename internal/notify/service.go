// Package notify sends the planning mails: deadline reminders to
// non-responders, confirmations to dispatchers and actors, and the final
// distribution when a period closes.
package notify

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
	obsmetrics "github.com/hccdispo/dispoplan/internal/observability/metrics"
	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
	"github.com/hccdispo/dispoplan/internal/providers/email"
	"github.com/hccdispo/dispoplan/internal/reminder"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

type Service struct {
	log      *zap.Logger
	provider email.Provider

	ppsvc   planperioddomain.Service
	avaisvc availabilitydomain.Service
	teamsvc teamdomain.Service
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Provider email.Provider

	PPsvc   planperioddomain.Service
	Avaisvc availabilitydomain.Service
	Teamsvc teamdomain.Service
}

func NewService(p ServiceParam) *Service {
	return &Service{
		log:      p.Log.Named("notify.service"),
		provider: p.Provider,

		ppsvc:   p.PPsvc,
		avaisvc: p.Avaisvc,
		teamsvc: p.Teamsvc,
	}
}

// ProvideFireFunc hands the deadline job body to the reminder scheduler.
func ProvideFireFunc(svc *Service) reminder.FireFunc {
	return svc.SendDeadlineReminders
}

// SendDeadlineReminders mails every actor of the period's team who has
// not responded, then tells the dispatcher who was reminded.
func (s *Service) SendDeadlineReminders(ctx context.Context, planPeriodID uuid.UUID) error {
	period, err := s.ppsvc.Get(ctx, planPeriodID)
	if err != nil {
		return err
	}
	team, err := s.teamsvc.GetTeam(ctx, period.TeamID)
	if err != nil {
		return err
	}
	dispatcher, err := s.teamsvc.GetPerson(ctx, team.DispatcherID)
	if err != nil {
		return err
	}

	missing, err := s.avaisvc.NonResponders(ctx, planPeriodID)
	if err != nil {
		return err
	}

	var sendErr error
	for _, actor := range missing {
		sendErr = errors.Join(sendErr, s.send(ctx, obsmetrics.MailKindReminder,
			[]string{actor.Email}, reminderSubject(), reminderBody(actor, *dispatcher, period)))
	}

	sendErr = errors.Join(sendErr, s.send(ctx, obsmetrics.MailKindConfirmation,
		[]string{dispatcher.Email}, confirmationSubject(), confirmationBody(*dispatcher, period, missing)))

	s.log.Info("notify.deadline_reminders",
		zap.String("plan_period_id", planPeriodID.String()),
		zap.Int("non_responders", len(missing)),
	)
	return sendErr
}

// SendClosedPeriodDistribution mails every responding actor their final
// days and the dispatcher the collected picture. Called when a period
// closes.
func (s *Service) SendClosedPeriodDistribution(ctx context.Context, planPeriodID uuid.UUID) error {
	period, err := s.ppsvc.Get(ctx, planPeriodID)
	if err != nil {
		return err
	}
	team, err := s.teamsvc.GetTeam(ctx, period.TeamID)
	if err != nil {
		return err
	}
	dispatcher, err := s.teamsvc.GetPerson(ctx, team.DispatcherID)
	if err != nil {
		return err
	}

	responses, err := s.avaisvc.EntriesForPeriod(ctx, planPeriodID)
	if err != nil {
		return err
	}

	var sendErr error
	for _, resp := range responses {
		sendErr = errors.Join(sendErr, s.send(ctx, obsmetrics.MailKindDistribution,
			[]string{resp.Person.Email}, distributionActorSubject(period),
			distributionActorBody(resp.Person, *dispatcher, resp.Days)))
	}

	sendErr = errors.Join(sendErr, s.send(ctx, obsmetrics.MailKindDistribution,
		[]string{dispatcher.Email}, distributionDispatcherSubject(period, team),
		distributionDispatcherBody(responses)))

	s.log.Info("notify.distribution",
		zap.String("plan_period_id", planPeriodID.String()),
		zap.Int("responses", len(responses)),
	)
	return sendErr
}

// SendSubmitConfirmation mails an actor the days they currently have on
// file across their open periods.
func (s *Service) SendSubmitConfirmation(ctx context.Context, personID uuid.UUID) error {
	actor, err := s.teamsvc.GetPerson(ctx, personID)
	if err != nil {
		return err
	}

	statuses, err := s.ppsvc.ListOpenForActor(ctx, personID)
	if err != nil {
		return err
	}

	sections := make([]submitSection, 0, len(statuses))
	for _, status := range statuses {
		if !status.FilledIn {
			continue
		}
		period := status.Period
		entries, err := s.avaisvc.Entries(ctx, personID, period.ID)
		if err != nil {
			return err
		}
		notes, err := s.avaisvc.Notes(ctx, personID, period.ID)
		if err != nil {
			return err
		}
		sections = append(sections, submitSection{Period: &period, Entries: entries, Notes: notes})
	}

	return s.send(ctx, obsmetrics.MailKindConfirmation,
		[]string{actor.Email}, submitConfirmationSubject(), submitConfirmationBody(*actor, sections))
}

func (s *Service) send(ctx context.Context, kind string, to []string, subject, body string) error {
	if err := s.provider.Send(ctx, to, subject, body); err != nil {
		obsmetrics.IncMailError(kind)
		s.log.Warn("notify.send_failed",
			zap.String("kind", kind),
			zap.Strings("to", to),
			zap.Error(err),
		)
		return err
	}
	obsmetrics.IncMailSent(kind)
	return nil
}
