package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"nikiplan/internal/auth"
	"nikiplan/internal/config"
	"nikiplan/internal/database"
	"nikiplan/internal/events"
	"nikiplan/internal/handlers"
	"nikiplan/internal/logger"
	"nikiplan/internal/metrics"
	"nikiplan/internal/reminder"
	"nikiplan/internal/store"
	"nikiplan/internal/websocket"
)

// Services are the wired components the HTTP layer calls into.
type Services struct {
	DB            *database.DB
	Users         *store.UserStore
	Notifications *store.NotificationStore
	Events        *events.Service
	Scanner       *reminder.Scanner
	Hub           *websocket.Hub
}

func SetupRouter(cfg *config.Config, svc Services, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(log))
	router.Use(metrics.GinMiddleware())

	// Custom CORS middleware
	router.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		for _, allowedOrigin := range cfg.CORS.AllowedOrigins {
			if origin == allowedOrigin {
				c.Header("Access-Control-Allow-Origin", origin)
				break
			}
		}
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Length, Content-Type, Authorization, "+handlers.InternalSecretHeader)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := svc.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	jwtManager := auth.NewJWTManager(cfg.JWT)

	authHandler := handlers.NewAuthHandler(svc.Users, jwtManager, cfg, log)
	userHandler := handlers.NewUserHandler(svc.Users, log)
	eventHandler := handlers.NewEventHandler(svc.Events, log)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications, log)
	triggerHandler := handlers.NewTriggerHandler(svc.Scanner, cfg.Reminder.TriggerSecret, log)
	wsHandler := handlers.NewWebSocketHandler(svc.Hub)

	// Public routes
	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
		}

		// Secret header or an admin/organizer session
		api.POST("/reminders/trigger", auth.OptionalJWTMiddleware(jwtManager), triggerHandler.Trigger)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(jwtManager))
	{
		users := protected.Group("/users")
		{
			users.GET("/me", userHandler.GetCurrentUser)
			users.GET("/me/preferences", userHandler.GetPreferences)
			users.PUT("/me/preferences", userHandler.UpdatePreferences)
		}

		events := protected.Group("/events")
		{
			events.GET("", eventHandler.GetEvents)
			events.POST("", eventHandler.CreateEvent)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)

			// Attendees
			events.POST("/:id/invite", eventHandler.InviteAttendee)
			events.POST("/:id/join", eventHandler.JoinEvent)
			events.POST("/:id/rsvp", eventHandler.RSVP)
			events.POST("/:id/requests/:userId", eventHandler.RespondToRequest)
			events.GET("/:id/attendees", eventHandler.GetAttendees)

			// Reminders and notices
			events.GET("/:id/reminders", eventHandler.GetReminders)
			events.PUT("/:id/reminders", eventHandler.ConfigureReminders)
			events.POST("/:id/notify", eventHandler.SendUpdateNotice)

			// Message board
			events.GET("/:id/messages", eventHandler.GetMessages)
			events.POST("/:id/messages", eventHandler.PostMessage)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.POST("/:id/read", notificationHandler.MarkAsRead)
			notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
		}
	}

	router.GET("/ws", auth.JWTMiddleware(jwtManager), wsHandler.HandleWebSocket)

	return router
}
