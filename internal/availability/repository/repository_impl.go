package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
)

type repo struct{}

func Provide() availabilitydomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, avail *availabilitydomain.Availability) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO availabilities (id, plan_period_id, person_id, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		avail.ID,
		avail.PlanPeriodID,
		avail.PersonID,
		avail.Notes,
		avail.CreatedAt,
		avail.UpdatedAt,
	).Error
}

func (r *repo) UpdateNotes(ctx context.Context, db *gorm.DB, id uuid.UUID, notes string, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE availabilities SET notes = ?, updated_at = ? WHERE id = ?`,
		notes,
		updatedAt,
		id,
	).Error
}

func (r *repo) FindByPersonPeriod(ctx context.Context, db *gorm.DB, personID, planPeriodID uuid.UUID) (*availabilitydomain.Availability, error) {
	var avail availabilitydomain.Availability
	err := db.WithContext(ctx).Raw(
		`SELECT id, plan_period_id, person_id, notes, created_at, updated_at
		 FROM availabilities WHERE person_id = ? AND plan_period_id = ?`,
		personID,
		planPeriodID,
	).Scan(&avail).Error
	if err != nil {
		return nil, err
	}
	if avail.ID == uuid.Nil {
		return nil, nil
	}
	return &avail, nil
}

func (r *repo) FindByPeriod(ctx context.Context, db *gorm.DB, planPeriodID uuid.UUID) ([]availabilitydomain.Availability, error) {
	var avails []availabilitydomain.Availability
	err := db.WithContext(ctx).Raw(
		`SELECT id, plan_period_id, person_id, notes, created_at, updated_at
		 FROM availabilities WHERE plan_period_id = ? ORDER BY created_at ASC`,
		planPeriodID,
	).Scan(&avails).Error
	if err != nil {
		return nil, err
	}
	return avails, nil
}

func (r *repo) DeleteByPeriod(ctx context.Context, db *gorm.DB, planPeriodID uuid.UUID) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM avail_days WHERE availability_id IN (
			SELECT id FROM availabilities WHERE plan_period_id = ?
		 )`,
		planPeriodID,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM availabilities WHERE plan_period_id = ?`,
		planPeriodID,
	).Error
}

func (r *repo) DeleteForPersonOpenPeriods(ctx context.Context, db *gorm.DB, personID uuid.UUID) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM avail_days WHERE availability_id IN (
			SELECT a.id FROM availabilities a
			JOIN plan_periods pp ON pp.id = a.plan_period_id
			WHERE a.person_id = ? AND pp.closed = ?
		 )`,
		personID,
		false,
	).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(
		`DELETE FROM availabilities WHERE person_id = ? AND plan_period_id IN (
			SELECT id FROM plan_periods WHERE closed = ?
		 )`,
		personID,
		false,
	).Error
}

func (r *repo) InsertEntry(ctx context.Context, db *gorm.DB, entry *availabilitydomain.AvailDay) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO avail_days (id, availability_id, day, time_of_day, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.AvailabilityID,
		entry.Day,
		entry.TimeOfDay,
		entry.CreatedAt,
	).Error
}

func (r *repo) DeleteEntry(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM avail_days WHERE id = ?`, id).Error
}

func (r *repo) DeleteEntries(ctx context.Context, db *gorm.DB, availabilityID uuid.UUID) error {
	return db.WithContext(ctx).Exec(
		`DELETE FROM avail_days WHERE availability_id = ?`,
		availabilityID,
	).Error
}

func (r *repo) FindEntry(ctx context.Context, db *gorm.DB, availabilityID uuid.UUID, day time.Time, tod availabilitydomain.TimeOfDay) (*availabilitydomain.AvailDay, error) {
	var entry availabilitydomain.AvailDay
	err := db.WithContext(ctx).Raw(
		`SELECT id, availability_id, day, time_of_day, created_at
		 FROM avail_days WHERE availability_id = ? AND day = ? AND time_of_day = ?`,
		availabilityID,
		day,
		tod,
	).Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.ID == uuid.Nil {
		return nil, nil
	}
	return &entry, nil
}

func (r *repo) EntriesByAvailability(ctx context.Context, db *gorm.DB, availabilityID uuid.UUID) ([]availabilitydomain.AvailDay, error) {
	var entries []availabilitydomain.AvailDay
	err := db.WithContext(ctx).Raw(
		`SELECT id, availability_id, day, time_of_day, created_at
		 FROM avail_days WHERE availability_id = ? ORDER BY day ASC, time_of_day ASC`,
		availabilityID,
	).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) DeleteEntriesOutsideRange(ctx context.Context, db *gorm.DB, planPeriodID uuid.UUID, start, end time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM avail_days WHERE availability_id IN (
			SELECT id FROM availabilities WHERE plan_period_id = ?
		 ) AND (day < ? OR day > ?)`,
		planPeriodID,
		start,
		end,
	)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
