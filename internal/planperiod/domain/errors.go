package domain

import "errors"

var (
	ErrPeriodNotFound   = errors.New("plan_period_not_found")
	ErrStartRequired    = errors.New("start_required")
	ErrEndRequired      = errors.New("end_required")
	ErrDeadlineRequired = errors.New("deadline_required")
	ErrStartOverlaps    = errors.New("start_overlaps_existing_period")
	ErrEndBeforeStart   = errors.New("end_before_start")
	ErrPeriodReopened   = errors.New("closed_period_reopened")
)
