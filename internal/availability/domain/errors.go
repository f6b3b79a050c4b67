package domain

import "errors"

var (
	ErrAvailabilityNotFound = errors.New("availability_not_found")
	ErrInvalidTimeOfDay     = errors.New("invalid_time_of_day")
	ErrDayOutsidePeriod     = errors.New("day_outside_period")
	ErrNoPeriodForDay       = errors.New("no_open_period_for_day")
	ErrPersonNotAssigned    = errors.New("person_not_assigned_to_team")
	ErrPeriodClosed         = errors.New("plan_period_closed")
)
