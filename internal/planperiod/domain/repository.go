package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides raw access to plan period rows.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, period *PlanPeriod) error
	Save(ctx context.Context, db *gorm.DB, period *PlanPeriod) error
	DeleteByID(ctx context.Context, db *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*PlanPeriod, error)
	FindByTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) ([]PlanPeriod, error)
	FindOpenByTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) ([]PlanPeriod, error)
	// MaxEndForTeam returns the latest end day over every period of the
	// team, closed ones included, or nil when the team has none.
	MaxEndForTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) (*time.Time, error)
	// FindCoveringDay returns the open period of the team whose range
	// contains the given day, or nil.
	FindCoveringDay(ctx context.Context, db *gorm.DB, teamID uuid.UUID, day time.Time) (*PlanPeriod, error)
}
