package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerPersonID = "X-Person-ID"
	headerRoles    = "X-Roles"

	ctxPersonID = "person_id"
	ctxRoles    = "roles"
)

// IdentityRequired reads the caller identity the auth proxy in front of
// this service injects. Requests without it are rejected.
func (s *Server) IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerPersonID))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		personID, err := uuid.Parse(raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		roles := make(map[string]struct{})
		for _, role := range strings.Split(c.GetHeader(headerRoles), ",") {
			role = strings.TrimSpace(strings.ToLower(role))
			if role != "" {
				roles[role] = struct{}{}
			}
		}

		c.Set(ctxPersonID, personID)
		c.Set(ctxRoles, roles)
		c.Next()
	}
}

// RequireRole gates a route on one of the given roles.
func (s *Server) RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := c.Get(ctxRoles)
		if !ok {
			AbortWithError(c, ErrForbidden)
			return
		}
		set := roles.(map[string]struct{})
		for _, role := range allowed {
			if _, ok := set[role]; ok {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func callerID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ctxPersonID)
	if !ok {
		return uuid.Nil
	}
	return v.(uuid.UUID)
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http.request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
