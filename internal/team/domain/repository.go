package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides raw access to project, person and team rows. An
// explicit *gorm.DB parameter lets services run several calls inside one
// transaction.
type Repository interface {
	InsertTeam(ctx context.Context, db *gorm.DB, team *Team) error
	SaveTeam(ctx context.Context, db *gorm.DB, team *Team) error
	DeleteTeam(ctx context.Context, db *gorm.DB, id uuid.UUID) error
	FindTeamByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Team, error)
	FindTeamsByDispatcher(ctx context.Context, db *gorm.DB, dispatcherID uuid.UUID) ([]Team, error)
	FindTeamsByProject(ctx context.Context, db *gorm.DB, projectID uuid.UUID) ([]Team, error)

	FindPersonByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Person, error)
	SavePerson(ctx context.Context, db *gorm.DB, person *Person) error
	FindActorsByTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) ([]Person, error)
	FindActorsByDispatcher(ctx context.Context, db *gorm.DB, dispatcherID uuid.UUID) ([]Person, error)

	FindProjectByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Project, error)
	DeleteProject(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}
