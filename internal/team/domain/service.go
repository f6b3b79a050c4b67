package domain

import (
	"context"

	"github.com/google/uuid"
)

// CreateTeamRequest carries the fields needed to open a new team.
type CreateTeamRequest struct {
	ProjectID    uuid.UUID
	Name         string
	DispatcherID uuid.UUID
}

// Service exposes team and person management.
type Service interface {
	CreateTeam(ctx context.Context, req CreateTeamRequest) (*Team, error)
	RenameTeam(ctx context.Context, teamID uuid.UUID, name string) (*Team, error)
	DeleteTeam(ctx context.Context, teamID uuid.UUID) error
	GetTeam(ctx context.Context, teamID uuid.UUID) (*Team, error)
	TeamsOfDispatcher(ctx context.Context, dispatcherID uuid.UUID) ([]Team, error)
	TeamsOfProject(ctx context.Context, projectID uuid.UUID) ([]Team, error)

	GetPerson(ctx context.Context, personID uuid.UUID) (*Person, error)
	ActorsOfTeam(ctx context.Context, teamID uuid.UUID) ([]Person, error)
	ActorsOfDispatcher(ctx context.Context, dispatcherID uuid.UUID) ([]Person, error)
	AssignActorToTeam(ctx context.Context, personID uuid.UUID, teamID *uuid.UUID) (*Person, error)

	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}
