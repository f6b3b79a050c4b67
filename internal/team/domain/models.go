// Package domain contains persistence models for projects, persons and teams.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Project is the top-level tenant owning persons and teams.
type Project struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"size:50;not null;uniqueIndex"`
	Active    bool       `gorm:"not null;default:false"`
	AdminID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// Person is a project member. An actor carries a team assignment; a
// dispatcher is referenced by the teams they plan for. Credentials live
// with the external identity service, not here.
type Person struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName  string     `gorm:"size:50;not null"`
	LastName   string     `gorm:"size:50;not null"`
	ArtistName string     `gorm:"size:50"`
	Email      string     `gorm:"size:100;not null;uniqueIndex"`
	Username   string     `gorm:"size:50;not null;uniqueIndex"`
	ProjectID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	TeamID     *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName sets the database table name.
func (Person) TableName() string { return "persons" }

// Team groups actors under one dispatcher.
type Team struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_teams_project_name"`
	Name         string    `gorm:"size:50;not null;uniqueIndex:idx_teams_project_name"`
	DispatcherID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName sets the database table name.
func (Team) TableName() string { return "teams" }
