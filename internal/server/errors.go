package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    err.Error(),
			Message: "validation error",
		}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, availabilitydomain.ErrPersonNotAssigned):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Code:    err.Error(),
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Code:    err.Error(),
			Message: "not found",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Code:    err.Error(),
			Message: "conflict",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, planperioddomain.ErrStartRequired),
		errors.Is(err, planperioddomain.ErrEndRequired),
		errors.Is(err, planperioddomain.ErrDeadlineRequired),
		errors.Is(err, planperioddomain.ErrEndBeforeStart),
		errors.Is(err, availabilitydomain.ErrInvalidTimeOfDay),
		errors.Is(err, availabilitydomain.ErrDayOutsidePeriod),
		errors.Is(err, teamdomain.ErrTeamNameRequired):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, planperioddomain.ErrPeriodNotFound),
		errors.Is(err, availabilitydomain.ErrAvailabilityNotFound),
		errors.Is(err, availabilitydomain.ErrNoPeriodForDay),
		errors.Is(err, teamdomain.ErrTeamNotFound),
		errors.Is(err, teamdomain.ErrPersonNotFound),
		errors.Is(err, teamdomain.ErrProjectNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, planperioddomain.ErrStartOverlaps),
		errors.Is(err, planperioddomain.ErrPeriodReopened),
		errors.Is(err, availabilitydomain.ErrPeriodClosed),
		errors.Is(err, teamdomain.ErrDuplicateTeamName),
		errors.Is(err, teamdomain.ErrTeamsStillAttached):
		return true
	default:
		return false
	}
}
