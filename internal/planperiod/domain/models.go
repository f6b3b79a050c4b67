// Package domain contains the planning period model. A planning period is
// the window of days a dispatcher collects availability for, with a
// deadline after which non-responders are reminded.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlanPeriod is one planning window of a team. Start, End and Deadline
// are calendar days stored at midnight UTC.
type PlanPeriod struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Start     time.Time `gorm:"column:start_date;not null"`
	End       time.Time `gorm:"column:end_date;not null"`
	Deadline  time.Time `gorm:"not null"`
	Notes     string    `gorm:"size:500"`
	Closed    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (PlanPeriod) TableName() string { return "plan_periods" }

// PeriodStatus pairs an open period with whether one actor has already
// entered days for it.
type PeriodStatus struct {
	Period   PlanPeriod
	FilledIn bool
}

// DateOnly truncates a timestamp to its calendar day at midnight UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
