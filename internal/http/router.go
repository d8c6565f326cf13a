package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, actorMiddleware gin.HandlerFunc, mapFeed http.Handler, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", handler.healthz)
	if mapFeed != nil {
		router.GET("/ws/map", gin.WrapH(mapFeed))
	}

	api := router.Group("/api/v1")
	api.POST("/session", handler.createSession)

	protected := api.Group("")
	protected.Use(actorMiddleware)
	{
		protected.GET("/actor", handler.getActor)
		protected.POST("/location", handler.updateLocation)

		protected.GET("/requests", handler.listRequests)
		protected.GET("/requests/active", handler.getActiveRequest)
		protected.GET("/requests/:id", handler.getRequest)
		protected.POST("/requests", handler.createRequest)
		protected.PUT("/requests/:id/status", handler.updateRequestStatus)
		protected.POST("/requests/:id/acknowledge", handler.acknowledgeRequest)
		protected.POST("/requests/:id/complete", handler.completeRequest)
		protected.POST("/requests/:id/dispatch", handler.dispatchRequest)
		protected.GET("/requests/:id/messages", handler.listMessages)
		protected.POST("/requests/:id/messages", handler.sendMessage)
		protected.POST("/requests/:id/read", handler.markMessagesRead)

		protected.GET("/notifications", handler.listNotifications)
		protected.POST("/notifications/:id/read", handler.markNotificationRead)
		protected.DELETE("/notifications", handler.clearNotifications)

		protected.GET("/vehicles", handler.listVehicles)
		protected.POST("/vehicles/:id/deploy", handler.deployVehicle)
		protected.GET("/vehicles/:id/route", handler.vehicleRoute)

		protected.GET("/drones", handler.listDrones)
		protected.GET("/zones", handler.listZones)
		protected.GET("/stats", handler.stats)
	}

	return router
}
