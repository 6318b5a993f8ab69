package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"violation-ledger/internal/ws"
)

func NewRouter(handler *Handler, wsHandler *ws.Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/violations", handler.listViolations)
		protected.POST("/violations", handler.createViolation)
		protected.GET("/violations/active", handler.activeAlerts)
		protected.GET("/violations/live", handler.liveBoard)
		protected.GET("/violations/repeat-offenders", handler.repeatOffenders)
		protected.GET("/violations/:id", handler.getViolation)
		protected.PUT("/violations/:id/status", handler.updateViolationStatus)

		protected.GET("/complaints", handler.listComplaints)
		protected.POST("/complaints", handler.createComplaint)
		protected.GET("/complaints/:id", handler.getComplaint)
		protected.PUT("/complaints/:id/status", handler.updateComplaintStatus)

		protected.POST("/visitors", handler.createVisitor)

		protected.GET("/hosts", handler.listHosts)

		protected.GET("/vehicles/:plate", handler.searchVehicle)
		protected.GET("/vehicles/:plate/host", handler.vehicleHost)
	}

	// Live feeds. Websocket clients authenticate with ?token= since they
	// cannot set the Authorization header.
	live := router.Group("/ws")
	live.Use(authMiddleware)
	{
		live.GET("/violations", wsHandler.Violations)
		live.GET("/violations/active-count", wsHandler.ActiveCount)
		live.GET("/complaints", wsHandler.Complaints)
	}

	return router
}
