// Package server exposes the HTTP surface: public demand browsing and
// submissions, the live SSE feed, and the authenticated moderation API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	auditservice "github.com/jimmyhealer/shovel-hero/internal/audit/service"
	"github.com/jimmyhealer/shovel-hero/internal/clock"
	commentdomain "github.com/jimmyhealer/shovel-hero/internal/comment/domain"
	"github.com/jimmyhealer/shovel-hero/internal/config"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
	identitydomain "github.com/jimmyhealer/shovel-hero/internal/identity/domain"
	"github.com/jimmyhealer/shovel-hero/internal/live"
	"github.com/jimmyhealer/shovel-hero/internal/statistics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(runServer),
)

type Params struct {
	fx.In

	Config         config.Config
	Log            *zap.Logger
	DB             *gorm.DB
	Clock          clock.Clock
	DemandSvc      demanddomain.Service
	FulfillmentSvc fulfillmentdomain.Service
	CommentSvc     commentdomain.Service
	StatsSvc       statistics.Service
	LiveFactory    *live.Factory
	AuditSvc       *auditservice.Recorder
	Admins         identitydomain.Repository
}

type Server struct {
	cfg            config.Config
	log            *zap.Logger
	db             *gorm.DB
	clock          clock.Clock
	demandSvc      demanddomain.Service
	fulfillmentSvc fulfillmentdomain.Service
	commentSvc     commentdomain.Service
	statsSvc       statistics.Service
	liveFactory    *live.Factory
	auditSvc       *auditservice.Recorder
	admins         identitydomain.Repository
	writeLimiter   *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:            p.Config,
		log:            p.Log.Named("server"),
		db:             p.DB,
		clock:          p.Clock,
		demandSvc:      p.DemandSvc,
		fulfillmentSvc: p.FulfillmentSvc,
		commentSvc:     p.CommentSvc,
		statsSvc:       p.StatsSvc,
		liveFactory:    p.LiveFactory,
		auditSvc:       p.AuditSvc,
		admins:         p.Admins,
		writeLimiter:   newRateLimiter(p.Config.WriteRateLimit, p.Config.WriteRateWindow),
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.RequestID())
	router.Use(s.RequestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/demands", s.ListDemands)
		api.GET("/demands/live", s.LiveDemands)
		api.GET("/demands/:id", s.GetDemand)
		api.GET("/demands/:id/comments", s.ListComments)

		writes := api.Group("")
		writes.Use(s.WriteRateLimit())
		{
			writes.POST("/demands", s.CreateDemand)
			writes.POST("/volunteer-applications", s.CreateVolunteerApplication)
			writes.POST("/donations", s.CreateDonation)
			writes.POST("/comments", s.CreateComment)
		}
	}

	admin := router.Group("/api/admin")
	admin.POST("/login", s.AdminLogin)
	authed := admin.Group("")
	authed.Use(s.AdminRequired())
	{
		authed.GET("/demands", s.AdminListDemands)
		authed.PUT("/demands/:id", s.AdminUpdateDemand)
		authed.DELETE("/demands/:id", s.AdminDeleteDemand)
		authed.POST("/demands/:id/approve", s.AdminApproveDemand)
		authed.POST("/demands/:id/reject", s.AdminRejectDemand)
		authed.GET("/volunteer-applications", s.AdminListApplications)
		authed.GET("/donations", s.AdminListDonations)
		authed.DELETE("/comments/:id", s.AdminRemoveComment)
		authed.POST("/test-cleanup", s.TestCleanup)
	}

	return router
}

func runServer(lc fx.Lifecycle, s *Server) {
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", httpServer.Addr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server exited", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpServer.Shutdown(ctx)
		},
	})
}
