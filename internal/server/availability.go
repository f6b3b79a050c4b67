package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
)

type availDayJSON struct {
	Day       string `json:"day"`
	TimeOfDay string `json:"time_of_day"`
}

func toAvailDaysJSON(entries []availabilitydomain.AvailDay) []availDayJSON {
	items := make([]availDayJSON, 0, len(entries))
	for _, entry := range entries {
		items = append(items, availDayJSON{
			Day:       entry.Day.Format(dayLayout),
			TimeOfDay: string(entry.TimeOfDay),
		})
	}
	return items
}

func (s *Server) SubmitAvailability(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Entries []availDayJSON `json:"entries"`
		Notes   string         `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	entries := make([]availabilitydomain.Entry, 0, len(req.Entries))
	for _, item := range req.Entries {
		day, err := parseDay(item.Day)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		tod, err := availabilitydomain.ParseTimeOfDay(item.TimeOfDay)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		entries = append(entries, availabilitydomain.Entry{Day: day, TimeOfDay: tod})
	}

	personID := callerID(c)
	if err := s.availSvc.Submit(c.Request.Context(), personID, periodID, entries, req.Notes); err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"data": gin.H{"submitted": len(entries)}}
	if err := s.notifySvc.SendSubmitConfirmation(c.Request.Context(), personID); err != nil {
		s.log.Warn("server.submit_confirmation_failed",
			zap.String("person_id", personID.String()),
			zap.Error(err),
		)
		resp["warning"] = "confirmation_not_sent"
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetAvailability(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	personID := callerID(c)
	entries, err := s.availSvc.Entries(c.Request.Context(), personID, periodID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	notes, err := s.availSvc.Notes(c.Request.Context(), personID, periodID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"entries": toAvailDaysJSON(entries),
		"notes":   notes,
	}})
}

func (s *Server) ToggleAvailDay(c *gin.Context) {
	var req availDayJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	day, err := parseDay(req.Day)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	tod, err := availabilitydomain.ParseTimeOfDay(req.TimeOfDay)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	present, err := s.availSvc.Toggle(c.Request.Context(), callerID(c), day, tod)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"present": present}})
}

func (s *Server) UpdateNotes(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.availSvc.UpdateNotes(c.Request.Context(), callerID(c), periodID, req.Notes); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": true}})
}

func (s *Server) ListPeriodAvailabilities(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	responses, err := s.availSvc.EntriesForPeriod(c.Request.Context(), periodID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	type responseJSON struct {
		Person personJSON     `json:"person"`
		Notes  string         `json:"notes"`
		Days   []availDayJSON `json:"days"`
	}
	items := make([]responseJSON, 0, len(responses))
	for _, resp := range responses {
		items = append(items, responseJSON{
			Person: toPersonJSON(&resp.Person),
			Notes:  resp.Notes,
			Days:   toAvailDaysJSON(resp.Days),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) ListNonResponders(c *gin.Context) {
	periodID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	missing, err := s.availSvc.NonResponders(c.Request.Context(), periodID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]personJSON, 0, len(missing))
	for i := range missing {
		items = append(items, toPersonJSON(&missing[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
