// Package domain contains the availability models. One availability row
// per actor and planning period carries free-text notes; the days the
// actor can work hang off it as entries.
package domain

import (
	"time"

	"github.com/google/uuid"

	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

// TimeOfDay is the part of a day an actor is available for. The short
// codes are the legacy wire values and still accepted on input.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayWholeDay  TimeOfDay = "whole_day"
	TimeOfDayEvening   TimeOfDay = "evening"
)

// Valid reports whether t is one of the known values.
func (t TimeOfDay) Valid() bool {
	switch t {
	case TimeOfDayMorning, TimeOfDayAfternoon, TimeOfDayWholeDay, TimeOfDayEvening:
		return true
	}
	return false
}

// ParseTimeOfDay accepts the canonical names and the legacy one-letter
// codes (v, n, g, a).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch s {
	case "v":
		return TimeOfDayMorning, nil
	case "n":
		return TimeOfDayAfternoon, nil
	case "g":
		return TimeOfDayWholeDay, nil
	case "a":
		return TimeOfDayEvening, nil
	}
	t := TimeOfDay(s)
	if !t.Valid() {
		return "", ErrInvalidTimeOfDay
	}
	return t, nil
}

// Availability is one actor's response for one planning period.
type Availability struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlanPeriodID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availabilities_period_person"`
	PersonID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_availabilities_period_person"`
	Notes        string    `gorm:"size:500"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (Availability) TableName() string { return "availabilities" }

// AvailDay is one day-and-slot entry of an availability. Day is a
// calendar day at midnight UTC.
type AvailDay struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AvailabilityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_avail_days_availability_day_tod"`
	Day            time.Time `gorm:"not null;uniqueIndex:idx_avail_days_availability_day_tod"`
	TimeOfDay      TimeOfDay `gorm:"size:20;not null;uniqueIndex:idx_avail_days_availability_day_tod"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (AvailDay) TableName() string { return "avail_days" }

// Entry is one submitted day-and-slot pair.
type Entry struct {
	Day       time.Time
	TimeOfDay TimeOfDay
}

// PersonEntries groups one actor's response for a period.
type PersonEntries struct {
	Person teamdomain.Person
	Notes  string
	Days   []AvailDay
}
