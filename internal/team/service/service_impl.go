package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
	"github.com/hccdispo/dispoplan/internal/clock"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
	"github.com/hccdispo/dispoplan/pkg/db"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	repo    teamdomain.Repository
	avaisvc availabilitydomain.Service
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  teamdomain.Repository

	Avaisvc availabilitydomain.Service
}

func NewService(p ServiceParam) teamdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("team.service"),
		clock: p.Clock,

		repo:    p.Repo,
		avaisvc: p.Avaisvc,
	}
}

// CreateTeam implements domain.Service.
func (s *Service) CreateTeam(ctx context.Context, req teamdomain.CreateTeamRequest) (*teamdomain.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, teamdomain.ErrTeamNameRequired
	}

	project, err := s.repo.FindProjectByID(ctx, s.db, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, teamdomain.ErrProjectNotFound
	}

	now := s.clock.Now()
	team := &teamdomain.Team{
		ID:           uuid.New(),
		ProjectID:    req.ProjectID,
		Name:         name,
		DispatcherID: req.DispatcherID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.InsertTeam(ctx, s.db, team); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, teamdomain.ErrDuplicateTeamName
		}
		return nil, err
	}

	s.log.Info("team.created",
		zap.String("team_id", team.ID.String()),
		zap.String("project_id", team.ProjectID.String()),
		zap.String("name", team.Name),
	)

	return team, nil
}

// RenameTeam implements domain.Service.
func (s *Service) RenameTeam(ctx context.Context, teamID uuid.UUID, name string) (*teamdomain.Team, error) {
	team, err := s.repo.FindTeamByID(ctx, s.db, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamdomain.ErrTeamNotFound
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, teamdomain.ErrTeamNameRequired
	}

	team.Name = name
	team.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveTeam(ctx, s.db, team); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, teamdomain.ErrDuplicateTeamName
		}
		return nil, err
	}

	return team, nil
}

// DeleteTeam implements domain.Service.
func (s *Service) DeleteTeam(ctx context.Context, teamID uuid.UUID) error {
	team, err := s.repo.FindTeamByID(ctx, s.db, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return teamdomain.ErrTeamNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		actors, err := s.repo.FindActorsByTeam(ctx, tx, teamID)
		if err != nil {
			return err
		}
		now := s.clock.Now()
		for i := range actors {
			actors[i].TeamID = nil
			actors[i].UpdatedAt = now
			if err := s.repo.SavePerson(ctx, tx, &actors[i]); err != nil {
				return err
			}
		}
		return s.repo.DeleteTeam(ctx, tx, teamID)
	})
}

// GetTeam implements domain.Service.
func (s *Service) GetTeam(ctx context.Context, teamID uuid.UUID) (*teamdomain.Team, error) {
	team, err := s.repo.FindTeamByID(ctx, s.db, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamdomain.ErrTeamNotFound
	}
	return team, nil
}

// TeamsOfDispatcher implements domain.Service.
func (s *Service) TeamsOfDispatcher(ctx context.Context, dispatcherID uuid.UUID) ([]teamdomain.Team, error) {
	return s.repo.FindTeamsByDispatcher(ctx, s.db, dispatcherID)
}

// TeamsOfProject implements domain.Service.
func (s *Service) TeamsOfProject(ctx context.Context, projectID uuid.UUID) ([]teamdomain.Team, error) {
	return s.repo.FindTeamsByProject(ctx, s.db, projectID)
}

// GetPerson implements domain.Service.
func (s *Service) GetPerson(ctx context.Context, personID uuid.UUID) (*teamdomain.Person, error) {
	person, err := s.repo.FindPersonByID(ctx, s.db, personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, teamdomain.ErrPersonNotFound
	}
	return person, nil
}

// ActorsOfTeam implements domain.Service.
func (s *Service) ActorsOfTeam(ctx context.Context, teamID uuid.UUID) ([]teamdomain.Person, error) {
	team, err := s.repo.FindTeamByID(ctx, s.db, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, teamdomain.ErrTeamNotFound
	}
	return s.repo.FindActorsByTeam(ctx, s.db, teamID)
}

// ActorsOfDispatcher implements domain.Service.
func (s *Service) ActorsOfDispatcher(ctx context.Context, dispatcherID uuid.UUID) ([]teamdomain.Person, error) {
	return s.repo.FindActorsByDispatcher(ctx, s.db, dispatcherID)
}

// AssignActorToTeam moves an actor between teams, or off any team when
// teamID is nil. Availability the actor already submitted for periods
// that are still open belongs to the old team and is discarded.
func (s *Service) AssignActorToTeam(ctx context.Context, personID uuid.UUID, teamID *uuid.UUID) (*teamdomain.Person, error) {
	person, err := s.repo.FindPersonByID(ctx, s.db, personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, teamdomain.ErrPersonNotFound
	}

	if teamID != nil {
		team, err := s.repo.FindTeamByID(ctx, s.db, *teamID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, teamdomain.ErrTeamNotFound
		}
	}

	if sameTeam(person.TeamID, teamID) {
		return person, nil
	}

	oldTeam := person.TeamID
	person.TeamID = teamID
	person.UpdatedAt = s.clock.Now()

	if oldTeam != nil {
		if err := s.avaisvc.ClearForPersonOpenPeriods(ctx, personID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.SavePerson(ctx, s.db, person); err != nil {
		return nil, err
	}

	s.log.Info("team.actor_reassigned",
		zap.String("person_id", personID.String()),
		zap.Stringp("team_id", uuidStringp(teamID)),
	)

	return person, nil
}

// DeleteProject implements domain.Service. Teams must be removed first.
func (s *Service) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	project, err := s.repo.FindProjectByID(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return teamdomain.ErrProjectNotFound
	}

	teams, err := s.repo.FindTeamsByProject(ctx, s.db, projectID)
	if err != nil {
		return err
	}
	if len(teams) > 0 {
		return teamdomain.ErrTeamsStillAttached
	}

	return s.repo.DeleteProject(ctx, s.db, projectID)
}

func sameTeam(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func uuidStringp(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
