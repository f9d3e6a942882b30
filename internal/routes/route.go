package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/jocky/internal/container"
	"github.com/joshua-takyi/jocky/internal/handlers"
	"github.com/joshua-takyi/jocky/internal/middleware"
	"github.com/joshua-takyi/jocky/internal/models"
)

// ICSDomain qualifies event UIDs in calendar feeds.
const ICSDomain = "jocky.app"

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "jocky-api",
			})
		})

		api.POST("/auth/register", handlers.Register(container.UserService, secure))
		api.POST("/auth/login", handlers.Login(container.UserService, secure))
		api.POST("/auth/logout", handlers.Logout(secure))
		api.GET("/events/statuses", handlers.ListTransitions())
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(container.Validator, container.Logger))
	venueOnly := middleware.RequireRole(models.RoleVenue)
	artistOnly := middleware.RequireRole(models.RoleArtist)

	protected.GET("/me", handlers.Me())
	protected.GET("/users/:id", handlers.GetUser(container.UserService))

	events := protected.Group("/events")
	{
		events.GET("", handlers.ListEvents(container.EventService))
		events.GET("/:id", handlers.GetEvent(container.EventService))
		events.POST("", venueOnly, handlers.CreateEvent(container.EventService))
		events.PUT("/:id", venueOnly, handlers.UpdateEvent(container.EventService))
		events.DELETE("/:id", venueOnly, handlers.DeleteEvent(container.EventService))
		events.POST("/:id/attachment", venueOnly, handlers.UploadAttachment(container.EventService))
		events.GET("/:id/bookings", venueOnly, handlers.ListBookings(container.BookingService))

		events.GET("/:id/requests", handlers.ListRequests(container.RequestService))
		events.POST("/:id/requests", artistOnly, handlers.ApplyToEvent(container.RequestService))
		events.POST("/:id/requests/:requestId/accept", venueOnly, handlers.ResolveRequest(container.EventService, container.RequestService, true))
		events.POST("/:id/requests/:requestId/decline", venueOnly, handlers.ResolveRequest(container.EventService, container.RequestService, false))
	}

	bookings := protected.Group("/bookings", venueOnly)
	{
		bookings.POST("", handlers.CreateBooking(container.EventService, container.BookingService))
		bookings.DELETE("/:id", handlers.DeleteBooking(container.BookingService))
	}

	protected.GET("/artists", handlers.ListArtists(container.ArtistService))
	protected.GET("/artists/:id", handlers.GetArtist(container.ArtistService))
	protected.PUT("/artist", artistOnly, handlers.SaveArtist(container.ArtistService))

	pool := protected.Group("/pool", venueOnly)
	{
		pool.GET("", handlers.ListPool(container.PoolService))
		pool.POST("/:artistId", handlers.AddToPool(container.PoolService))
		pool.DELETE("/:artistId", handlers.RemoveFromPool(container.PoolService))
	}

	messages := protected.Group("/messages")
	{
		messages.GET("/conversations", handlers.ListConversations(container.MessageService))
		messages.GET("/:conversationId", handlers.ListMessages(container.MessageService))
		messages.POST("", handlers.SendMessage(container.MessageService))
		messages.POST("/:conversationId/read", handlers.MarkRead(container.MessageService))
	}

	protected.GET("/calendar/month", handlers.MonthCalendar(container.CalendarService))
	protected.GET("/calendar/week", handlers.WeekCalendar(container.CalendarService))
	protected.GET("/calendar/history", handlers.EventHistory(container.CalendarService))
	protected.GET("/calendar.ics", handlers.CalendarFeed(container.CalendarService, ICSDomain))

	protected.GET("/venues/:id", handlers.GetVenue(container.VenueService))
	protected.PUT("/venue", venueOnly, handlers.SaveVenue(container.VenueService))

	return r
}
