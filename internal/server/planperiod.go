package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
)

const dayLayout = "2006-01-02"

type planPeriodJSON struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Deadline string `json:"deadline"`
	Notes    string `json:"notes"`
	Closed   bool   `json:"closed"`
}

func toPlanPeriodJSON(period *planperioddomain.PlanPeriod) planPeriodJSON {
	return planPeriodJSON{
		ID:       period.ID.String(),
		TeamID:   period.TeamID.String(),
		Start:    period.Start.Format(dayLayout),
		End:      period.End.Format(dayLayout),
		Deadline: period.Deadline.Format(dayLayout),
		Notes:    period.Notes,
		Closed:   period.Closed,
	}
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, s)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) CreatePlanPeriod(c *gin.Context) {
	var req struct {
		ID       *string `json:"id"`
		TeamID   string  `json:"team_id"`
		Start    *string `json:"start"`
		End      string  `json:"end"`
		Deadline string  `json:"deadline"`
		Notes    string  `json:"notes"`
		Reminder bool    `json:"reminder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	create := planperioddomain.CreateRequest{TeamID: teamID, Notes: req.Notes}
	if req.ID != nil {
		id, err := uuid.Parse(*req.ID)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		create.ID = &id
	}
	if req.Start != nil {
		start, err := parseDay(*req.Start)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		create.Start = &start
	}
	if create.End, err = parseDay(req.End); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if create.Deadline, err = parseDay(req.Deadline); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	period, err := s.planPeriodSvc.Create(c.Request.Context(), create)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"data": toPlanPeriodJSON(period)}
	if req.Reminder {
		if err := s.scheduler.Schedule(c.Request.Context(), period.ID, period.Deadline); err != nil {
			s.log.Warn("server.reminder_schedule_failed",
				zap.String("plan_period_id", period.ID.String()),
				zap.Error(err),
			)
			resp["warning"] = "reminder_not_scheduled"
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetPlanPeriod(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	period, err := s.planPeriodSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toPlanPeriodJSON(period)})
}

func (s *Server) UpdatePlanPeriod(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Start    string `json:"start"`
		End      string `json:"end"`
		Deadline string `json:"deadline"`
		Notes    string `json:"notes"`
		Closed   bool   `json:"closed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	update := planperioddomain.UpdateRequest{ID: id, Notes: req.Notes, Closed: req.Closed}
	var err error
	if update.Start, err = parseDay(req.Start); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if update.End, err = parseDay(req.End); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if update.Deadline, err = parseDay(req.Deadline); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.planPeriodSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"data": toPlanPeriodJSON(result.Period)}
	if result.RemovedEntries > 0 {
		resp["removed_entries"] = result.RemovedEntries
	}

	ctx := c.Request.Context()
	switch {
	case result.ClosedNow:
		if err := s.scheduler.Cancel(ctx, id); err != nil {
			s.log.Warn("server.reminder_cancel_failed", zap.String("plan_period_id", id.String()), zap.Error(err))
			resp["warning"] = "reminder_not_canceled"
		}
		if err := s.notifySvc.SendClosedPeriodDistribution(ctx, id); err != nil {
			s.log.Warn("server.distribution_failed", zap.String("plan_period_id", id.String()), zap.Error(err))
			resp["warning"] = "distribution_not_sent"
		}
	case result.DeadlineChanged && !result.Period.Closed:
		if err := s.scheduler.Schedule(ctx, id, result.Period.Deadline); err != nil {
			s.log.Warn("server.reminder_schedule_failed", zap.String("plan_period_id", id.String()), zap.Error(err))
			resp["warning"] = "reminder_not_rescheduled"
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeletePlanPeriod(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.planPeriodSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"data": gin.H{"deleted": true}}
	if err := s.scheduler.Cancel(c.Request.Context(), id); err != nil {
		s.log.Warn("server.reminder_cancel_failed", zap.String("plan_period_id", id.String()), zap.Error(err))
		resp["warning"] = "reminder_not_canceled"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListPlanPeriods(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	periods, err := s.planPeriodSvc.ListForTeam(c.Request.Context(), teamID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]planPeriodJSON, 0, len(periods))
	for i := range periods {
		items = append(items, toPlanPeriodJSON(&periods[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetLastPeriodEnd(c *gin.Context) {
	teamID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	lastEnd, err := s.planPeriodSvc.LastPeriodEnd(c.Request.Context(), teamID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var value *string
	if lastEnd != nil {
		v := lastEnd.Format(dayLayout)
		value = &v
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"last_period_end": value}})
}

func (s *Server) ListOpenPlanPeriods(c *gin.Context) {
	statuses, err := s.planPeriodSvc.ListOpenForActor(c.Request.Context(), callerID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	type statusJSON struct {
		planPeriodJSON
		FilledIn bool `json:"filled_in"`
	}
	items := make([]statusJSON, 0, len(statuses))
	for i := range statuses {
		items = append(items, statusJSON{
			planPeriodJSON: toPlanPeriodJSON(&statuses[i].Period),
			FilledIn:       statuses[i].FilledIn,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
