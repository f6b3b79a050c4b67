package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository provides raw access to availability and avail day rows.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, avail *Availability) error
	UpdateNotes(ctx context.Context, db *gorm.DB, id uuid.UUID, notes string, updatedAt time.Time) error
	FindByPersonPeriod(ctx context.Context, db *gorm.DB, personID, planPeriodID uuid.UUID) (*Availability, error)
	FindByPeriod(ctx context.Context, db *gorm.DB, planPeriodID uuid.UUID) ([]Availability, error)
	DeleteByPeriod(ctx context.Context, db *gorm.DB, planPeriodID uuid.UUID) error
	DeleteForPersonOpenPeriods(ctx context.Context, db *gorm.DB, personID uuid.UUID) error

	InsertEntry(ctx context.Context, db *gorm.DB, entry *AvailDay) error
	DeleteEntry(ctx context.Context, db *gorm.DB, id uuid.UUID) error
	DeleteEntries(ctx context.Context, db *gorm.DB, availabilityID uuid.UUID) error
	FindEntry(ctx context.Context, db *gorm.DB, availabilityID uuid.UUID, day time.Time, tod TimeOfDay) (*AvailDay, error)
	EntriesByAvailability(ctx context.Context, db *gorm.DB, availabilityID uuid.UUID) ([]AvailDay, error)
	// DeleteEntriesOutsideRange removes entries of the period whose day
	// falls before start or after end, returning how many went.
	DeleteEntriesOutsideRange(ctx context.Context, db *gorm.DB, planPeriodID uuid.UUID, start, end time.Time) (int64, error)
}
