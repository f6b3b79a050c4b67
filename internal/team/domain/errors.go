package domain

import "errors"

var (
	ErrProjectNotFound    = errors.New("project_not_found")
	ErrPersonNotFound     = errors.New("person_not_found")
	ErrTeamNotFound       = errors.New("team_not_found")
	ErrTeamNameRequired   = errors.New("team_name_required")
	ErrDuplicateTeamName  = errors.New("duplicate_team_name")
	ErrTeamsStillAttached = errors.New("teams_still_attached")
)
