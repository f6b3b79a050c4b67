package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
)

type repo struct{}

func Provide() planperioddomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, period *planperioddomain.PlanPeriod) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO plan_periods (id, team_id, start_date, end_date, deadline, notes, closed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		period.ID,
		period.TeamID,
		period.Start,
		period.End,
		period.Deadline,
		period.Notes,
		period.Closed,
		period.CreatedAt,
		period.UpdatedAt,
	).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, period *planperioddomain.PlanPeriod) error {
	return db.WithContext(ctx).Exec(
		`UPDATE plan_periods
		 SET start_date = ?, end_date = ?, deadline = ?, notes = ?, closed = ?, updated_at = ?
		 WHERE id = ?`,
		period.Start,
		period.End,
		period.Deadline,
		period.Notes,
		period.Closed,
		period.UpdatedAt,
		period.ID,
	).Error
}

func (r *repo) DeleteByID(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM plan_periods WHERE id = ?`, id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*planperioddomain.PlanPeriod, error) {
	var period planperioddomain.PlanPeriod
	err := db.WithContext(ctx).Raw(
		`SELECT id, team_id, start_date, end_date, deadline, notes, closed, created_at, updated_at
		 FROM plan_periods WHERE id = ?`,
		id,
	).Scan(&period).Error
	if err != nil {
		return nil, err
	}
	if period.ID == uuid.Nil {
		return nil, nil
	}
	return &period, nil
}

func (r *repo) FindByTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) ([]planperioddomain.PlanPeriod, error) {
	var periods []planperioddomain.PlanPeriod
	err := db.WithContext(ctx).Raw(
		`SELECT id, team_id, start_date, end_date, deadline, notes, closed, created_at, updated_at
		 FROM plan_periods WHERE team_id = ? ORDER BY start_date ASC`,
		teamID,
	).Scan(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *repo) FindOpenByTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) ([]planperioddomain.PlanPeriod, error) {
	var periods []planperioddomain.PlanPeriod
	err := db.WithContext(ctx).Raw(
		`SELECT id, team_id, start_date, end_date, deadline, notes, closed, created_at, updated_at
		 FROM plan_periods WHERE team_id = ? AND closed = ? ORDER BY start_date ASC`,
		teamID,
		false,
	).Scan(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *repo) MaxEndForTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) (*time.Time, error) {
	var row struct {
		MaxEnd *time.Time
	}
	err := db.WithContext(ctx).Raw(
		`SELECT MAX(end_date) AS max_end FROM plan_periods WHERE team_id = ?`,
		teamID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return row.MaxEnd, nil
}

func (r *repo) FindCoveringDay(ctx context.Context, db *gorm.DB, teamID uuid.UUID, day time.Time) (*planperioddomain.PlanPeriod, error) {
	var period planperioddomain.PlanPeriod
	err := db.WithContext(ctx).Raw(
		`SELECT id, team_id, start_date, end_date, deadline, notes, closed, created_at, updated_at
		 FROM plan_periods
		 WHERE team_id = ? AND closed = ? AND start_date <= ? AND end_date >= ?
		 ORDER BY start_date ASC
		 LIMIT 1`,
		teamID,
		false,
		day,
		day,
	).Scan(&period).Error
	if err != nil {
		return nil, err
	}
	if period.ID == uuid.Nil {
		return nil, nil
	}
	return &period, nil
}
