package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

type repo struct{}

func Provide() teamdomain.Repository {
	return &repo{}
}

func (r *repo) InsertTeam(ctx context.Context, db *gorm.DB, team *teamdomain.Team) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO teams (id, project_id, name, dispatcher_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		team.ID,
		team.ProjectID,
		team.Name,
		team.DispatcherID,
		team.CreatedAt,
		team.UpdatedAt,
	).Error
}

func (r *repo) SaveTeam(ctx context.Context, db *gorm.DB, team *teamdomain.Team) error {
	return db.WithContext(ctx).Exec(
		`UPDATE teams SET name = ?, dispatcher_id = ?, updated_at = ? WHERE id = ?`,
		team.Name,
		team.DispatcherID,
		team.UpdatedAt,
		team.ID,
	).Error
}

func (r *repo) DeleteTeam(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM teams WHERE id = ?`, id).Error
}

func (r *repo) FindTeamByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*teamdomain.Team, error) {
	var team teamdomain.Team
	err := db.WithContext(ctx).Raw(
		`SELECT id, project_id, name, dispatcher_id, created_at, updated_at
		 FROM teams WHERE id = ?`,
		id,
	).Scan(&team).Error
	if err != nil {
		return nil, err
	}
	if team.ID == uuid.Nil {
		return nil, nil
	}
	return &team, nil
}

func (r *repo) FindTeamsByDispatcher(ctx context.Context, db *gorm.DB, dispatcherID uuid.UUID) ([]teamdomain.Team, error) {
	var teams []teamdomain.Team
	err := db.WithContext(ctx).Raw(
		`SELECT id, project_id, name, dispatcher_id, created_at, updated_at
		 FROM teams WHERE dispatcher_id = ? ORDER BY name ASC`,
		dispatcherID,
	).Scan(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *repo) FindTeamsByProject(ctx context.Context, db *gorm.DB, projectID uuid.UUID) ([]teamdomain.Team, error) {
	var teams []teamdomain.Team
	err := db.WithContext(ctx).Raw(
		`SELECT id, project_id, name, dispatcher_id, created_at, updated_at
		 FROM teams WHERE project_id = ? ORDER BY name ASC`,
		projectID,
	).Scan(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *repo) FindPersonByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*teamdomain.Person, error) {
	var person teamdomain.Person
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, artist_name, email, username, project_id, team_id, created_at, updated_at
		 FROM persons WHERE id = ?`,
		id,
	).Scan(&person).Error
	if err != nil {
		return nil, err
	}
	if person.ID == uuid.Nil {
		return nil, nil
	}
	return &person, nil
}

func (r *repo) SavePerson(ctx context.Context, db *gorm.DB, person *teamdomain.Person) error {
	return db.WithContext(ctx).Exec(
		`UPDATE persons SET first_name = ?, last_name = ?, artist_name = ?, email = ?, username = ?, team_id = ?, updated_at = ?
		 WHERE id = ?`,
		person.FirstName,
		person.LastName,
		person.ArtistName,
		person.Email,
		person.Username,
		person.TeamID,
		person.UpdatedAt,
		person.ID,
	).Error
}

func (r *repo) FindActorsByTeam(ctx context.Context, db *gorm.DB, teamID uuid.UUID) ([]teamdomain.Person, error) {
	var persons []teamdomain.Person
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, artist_name, email, username, project_id, team_id, created_at, updated_at
		 FROM persons WHERE team_id = ? ORDER BY last_name ASC, first_name ASC`,
		teamID,
	).Scan(&persons).Error
	if err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *repo) FindActorsByDispatcher(ctx context.Context, db *gorm.DB, dispatcherID uuid.UUID) ([]teamdomain.Person, error) {
	var persons []teamdomain.Person
	err := db.WithContext(ctx).Raw(
		`SELECT p.id, p.first_name, p.last_name, p.artist_name, p.email, p.username, p.project_id, p.team_id, p.created_at, p.updated_at
		 FROM persons p
		 JOIN teams t ON t.id = p.team_id
		 WHERE t.dispatcher_id = ?
		 ORDER BY p.last_name ASC, p.first_name ASC`,
		dispatcherID,
	).Scan(&persons).Error
	if err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *repo) FindProjectByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*teamdomain.Project, error) {
	var project teamdomain.Project
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, active, admin_id, created_at, updated_at
		 FROM projects WHERE id = ?`,
		id,
	).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, nil
	}
	return &project, nil
}

func (r *repo) DeleteProject(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM projects WHERE id = ?`, id).Error
}
