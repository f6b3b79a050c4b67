package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hccdispo/dispoplan/internal/availability"
	availabilitydomain "github.com/hccdispo/dispoplan/internal/availability/domain"
	"github.com/hccdispo/dispoplan/internal/config"
	"github.com/hccdispo/dispoplan/internal/notify"
	"github.com/hccdispo/dispoplan/internal/planperiod"
	planperioddomain "github.com/hccdispo/dispoplan/internal/planperiod/domain"
	"github.com/hccdispo/dispoplan/internal/providers/email"
	"github.com/hccdispo/dispoplan/internal/reminder"
	"github.com/hccdispo/dispoplan/internal/team"
	teamdomain "github.com/hccdispo/dispoplan/internal/team/domain"
)

// Roles the auth proxy may assert for a caller.
const (
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleActor      = "actor"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	team.Module,
	planperiod.Module,
	availability.Module,
	email.Module,
	notify.Module,
	reminder.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func registerGin(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(ErrorHandlingMiddleware())
	return engine
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	log    *zap.Logger

	teamSvc       teamdomain.Service
	planPeriodSvc planperioddomain.Service
	availSvc      availabilitydomain.Service
	notifySvc     *notify.Service
	scheduler     *reminder.Scheduler
}

type ServerParams struct {
	fx.In

	Gin *gin.Engine
	Cfg config.Config
	Log *zap.Logger

	TeamSvc       teamdomain.Service
	PlanPeriodSvc planperioddomain.Service
	AvailSvc      availabilitydomain.Service
	NotifySvc     *notify.Service
	Scheduler     *reminder.Scheduler
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		log:    p.Log.Named("server"),

		teamSvc:       p.TeamSvc,
		planPeriodSvc: p.PlanPeriodSvc,
		availSvc:      p.AvailSvc,
		notifySvc:     p.NotifySvc,
		scheduler:     p.Scheduler,
	}

	svc.registerSystemRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerSystemRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.IdentityRequired())

	// -------- Teams --------
	api.POST("/teams", s.RequireRole(RoleAdmin, RoleSupervisor), s.CreateTeam)
	api.GET("/teams", s.RequireRole(RoleDispatcher, RoleAdmin, RoleSupervisor), s.ListTeams)
	api.GET("/teams/:id", s.RequireRole(RoleDispatcher, RoleAdmin, RoleSupervisor), s.GetTeam)
	api.PATCH("/teams/:id", s.RequireRole(RoleAdmin, RoleSupervisor), s.RenameTeam)
	api.DELETE("/teams/:id", s.RequireRole(RoleAdmin, RoleSupervisor), s.DeleteTeam)
	api.GET("/teams/:id/actors", s.RequireRole(RoleDispatcher, RoleAdmin, RoleSupervisor), s.ListTeamActors)
	api.PUT("/persons/:id/team", s.RequireRole(RoleAdmin, RoleSupervisor), s.AssignActor)
	api.DELETE("/projects/:id", s.RequireRole(RoleSupervisor), s.DeleteProject)

	// -------- Planning periods --------
	api.POST("/plan-periods", s.RequireRole(RoleDispatcher, RoleAdmin), s.CreatePlanPeriod)
	api.GET("/plan-periods/:id", s.RequireRole(RoleDispatcher, RoleAdmin), s.GetPlanPeriod)
	api.PUT("/plan-periods/:id", s.RequireRole(RoleDispatcher, RoleAdmin), s.UpdatePlanPeriod)
	api.DELETE("/plan-periods/:id", s.RequireRole(RoleDispatcher, RoleAdmin), s.DeletePlanPeriod)
	api.GET("/teams/:id/plan-periods", s.RequireRole(RoleDispatcher, RoleAdmin), s.ListPlanPeriods)
	api.GET("/teams/:id/last-period-end", s.RequireRole(RoleDispatcher, RoleAdmin), s.GetLastPeriodEnd)
	api.GET("/plan-periods/:id/availabilities", s.RequireRole(RoleDispatcher, RoleAdmin), s.ListPeriodAvailabilities)
	api.GET("/plan-periods/:id/non-responders", s.RequireRole(RoleDispatcher, RoleAdmin), s.ListNonResponders)

	// -------- Actor availability --------
	api.GET("/actor/plan-periods", s.RequireRole(RoleActor), s.ListOpenPlanPeriods)
	api.PUT("/actor/plan-periods/:id/availability", s.RequireRole(RoleActor), s.SubmitAvailability)
	api.GET("/actor/plan-periods/:id/availability", s.RequireRole(RoleActor), s.GetAvailability)
	api.POST("/actor/avail-days/toggle", s.RequireRole(RoleActor), s.ToggleAvailDay)
	api.PUT("/actor/plan-periods/:id/notes", s.RequireRole(RoleActor), s.UpdateNotes)
}
