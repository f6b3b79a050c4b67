package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// KindDeadlineReminder is the only job kind today. The column exists
	// so later job types can share the table.
	KindDeadlineReminder = "deadline_reminder"

	jobSchemaVersion = 1
)

// ReminderJob is a persisted one-shot job. One row per planning period;
// rescheduling replaces the row, firing deletes it.
type ReminderJob struct {
	PlanPeriodID  uuid.UUID         `gorm:"type:uuid;primaryKey"`
	FireAt        time.Time         `gorm:"not null;index"`
	Kind          string            `gorm:"size:30;not null"`
	Args          datatypes.JSONMap `gorm:"not null"`
	SchemaVersion int               `gorm:"not null;default:1"`
	CreatedAt     time.Time         `gorm:"not null"`
	UpdatedAt     time.Time         `gorm:"not null"`
}

// TableName sets the database table name.
func (ReminderJob) TableName() string { return "reminder_jobs" }

// Store persists reminder jobs across restarts.
type Store interface {
	Upsert(ctx context.Context, job *ReminderJob) error
	Delete(ctx context.Context, planPeriodID uuid.UUID) error
	All(ctx context.Context) ([]ReminderJob, error)
}

type store struct {
	db *gorm.DB
}

func ProvideStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Upsert(ctx context.Context, job *ReminderJob) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM reminder_jobs WHERE plan_period_id = ?`,
			job.PlanPeriodID,
		).Error; err != nil {
			return err
		}
		return tx.Exec(
			`INSERT INTO reminder_jobs (plan_period_id, fire_at, kind, args, schema_version, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			job.PlanPeriodID,
			job.FireAt,
			job.Kind,
			job.Args,
			job.SchemaVersion,
			job.CreatedAt,
			job.UpdatedAt,
		).Error
	})
}

func (s *store) Delete(ctx context.Context, planPeriodID uuid.UUID) error {
	return s.db.WithContext(ctx).Exec(
		`DELETE FROM reminder_jobs WHERE plan_period_id = ?`,
		planPeriodID,
	).Error
}

func (s *store) All(ctx context.Context) ([]ReminderJob, error) {
	var jobs []ReminderJob
	err := s.db.WithContext(ctx).Raw(
		`SELECT plan_period_id, fire_at, kind, args, schema_version, created_at, updated_at
		 FROM reminder_jobs ORDER BY fire_at ASC`,
	).Scan(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
