package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

type teamJSON struct {
	ID           string `json:"id"`
	ProjectID    string `json:"project_id"`
	Name         string `json:"name"`
	DispatcherID string `json:"dispatcher_id"`
}

type personJSON struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	ArtistName string  `json:"artist_name,omitempty"`
	Email      string  `json:"email"`
	TeamID     *string `json:"team_id"`
}

func toTeamJSON(team *teamdomain.Team) teamJSON {
	return teamJSON{
		ID:           team.ID.String(),
		ProjectID:    team.ProjectID.String(),
		Name:         team.Name,
		DispatcherID: team.DispatcherID.String(),
	}
}

func toPersonJSON(person *teamdomain.Person) personJSON {
	item := personJSON{
		ID:         person.ID.String(),
		FirstName:  person.FirstName,
		LastName:   person.LastName,
		ArtistName: person.ArtistName,
		Email:      person.Email,
	}
	if person.TeamID != nil {
		v := person.TeamID.String()
		item.TeamID = &v
	}
	return item
}

func (s *Server) CreateTeam(c *gin.Context) {
	var req struct {
		ProjectID    string `json:"project_id"`
		Name         string `json:"name"`
		DispatcherID string `json:"dispatcher_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	dispatcherID, err := uuid.Parse(req.DispatcherID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	team, err := s.teamSvc.CreateTeam(c.Request.Context(), teamdomain.CreateTeamRequest{
		ProjectID:    projectID,
		Name:         req.Name,
		DispatcherID: dispatcherID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTeamJSON(team)})
}

func (s *Server) ListTeams(c *gin.Context) {
	ctx := c.Request.Context()

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		teams, err := s.teamSvc.TeamsOfProject(ctx, projectID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": toTeamsJSON(teams)})
		return
	}

	teams, err := s.teamSvc.TeamsOfDispatcher(ctx, callerID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTeamsJSON(teams)})
}

func toTeamsJSON(teams []teamdomain.Team) []teamJSON {
	items := make([]teamJSON, 0, len(teams))
	for i := range teams {
		items = append(items, toTeamJSON(&teams[i]))
	}
	return items
}

func (s *Server) GetTeam(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	team, err := s.teamSvc.GetTeam(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTeamJSON(team)})
}

func (s *Server) RenameTeam(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	team, err := s.teamSvc.RenameTeam(c.Request.Context(), id, req.Name)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTeamJSON(team)})
}

func (s *Server) DeleteTeam(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.teamSvc.DeleteTeam(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListTeamActors(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actors, err := s.teamSvc.ActorsOfTeam(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]personJSON, 0, len(actors))
	for i := range actors {
		items = append(items, toPersonJSON(&actors[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) AssignActor(c *gin.Context) {
	personID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		TeamID *string `json:"team_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var teamID *uuid.UUID
	if req.TeamID != nil {
		id, err := uuid.Parse(*req.TeamID)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		teamID = &id
	}

	person, err := s.teamSvc.AssignActorToTeam(c.Request.Context(), personID, teamID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPersonJSON(person)})
}

func (s *Server) DeleteProject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.teamSvc.DeleteProject(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
