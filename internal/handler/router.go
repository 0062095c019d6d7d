package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus/spacehub/internal/config"
	"campus/spacehub/internal/handler/middleware"
	"campus/spacehub/pkg/response"
)

// Handlers groups the HTTP handlers mounted by SetupRouter.
type Handlers struct {
	Floors       *FloorHandler
	Spaces       *SpaceHandler
	Reservations *ReservationHandler
	Invitations  *InvitationHandler
	Admin        *AdminHandler
}

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	verifier middleware.TokenVerifier,
	h Handlers,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	// Public routes
	public := r.Group("/api/v1")
	{
		public.GET("/availability", h.Spaces.Availability)
		public.GET("/floors", h.Floors.List)
		public.GET("/floors/:id", h.Floors.Get)
		public.GET("/spaces", h.Spaces.List)
		public.GET("/spaces/:id", h.Spaces.Get)
		public.GET("/spaces/:id/availability", h.Spaces.DayAvailability)
		public.GET("/invitations/:token", h.Invitations.Validate)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(verifier))
	{
		protected.POST("/reservations", h.Reservations.Create)
		protected.GET("/reservations", h.Reservations.List)
		protected.GET("/reservations/:id", h.Reservations.Get)
		protected.DELETE("/reservations/:id", h.Reservations.Cancel)
		protected.DELETE("/reservations/:id/participants/:participantId", h.Reservations.RemoveParticipant)

		protected.POST("/invitations/:token/join", h.Invitations.Join)
	}

	// Admin routes (JWT + admin role)
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuth(verifier))
	admin.Use(middleware.AdminAuth())
	{
		admin.GET("/stats/reservations", h.Admin.Stats)
		admin.GET("/analytics/utilization", h.Admin.Utilization)
		admin.GET("/reservations", h.Admin.ListReservations)
		admin.GET("/reservations/:id", h.Admin.GetReservation)
		admin.POST("/reservations/:id/cancel", h.Admin.CancelReservation)

		admin.POST("/spaces", h.Admin.CreateSpace)
		admin.PUT("/spaces/:id", h.Admin.UpdateSpace)
		admin.POST("/spaces/:id/unavailable", h.Admin.MarkUnavailable)
		admin.POST("/spaces/:id/available", h.Admin.MarkAvailable)

		admin.POST("/floors", h.Admin.CreateFloor)
		admin.PATCH("/floors/:id", h.Admin.UpdateFloor)
	}

	return r
}
