// api/routes/router.go
package routes

import (
	"context"
	"dexotix/internal/analytics"
	"dexotix/internal/auth"
	"dexotix/internal/bookings"
	"dexotix/internal/cancellation"
	"dexotix/internal/events"
	"dexotix/internal/notifications"
	"dexotix/internal/payments"
	"dexotix/internal/seats"
	"dexotix/internal/shared/config"
	"dexotix/internal/shared/database"
	"dexotix/internal/tags"
	"dexotix/internal/venues"
	"dexotix/pkg/cache"
	"dexotix/pkg/metrics"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.EventProducer
	metrics  *metrics.Metrics

	cacheService cache.Service

	// Services kept for cross-feature injection
	tagService     tags.Service
	venueService   venues.Service
	eventService   events.Service
	seatService    seats.Service
	bookingService bookings.Service
	paymentService payments.Service
	authRepo       auth.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.EventProducer, m *metrics.Metrics) *Router {
	r := &Router{
		config:   cfg,
		db:       db,
		producer: producer,
		metrics:  m,
	}
	if db.Redis != nil {
		r.cacheService = cache.NewService(db.GetRedis())
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/metrics", metrics.Handler())

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Order matters: later groups inject services built by earlier ones.
		r.setupAuthRoutes(api)
		r.setupTagRoutes(api)
		r.setupVenueRoutes(api)
		r.setupEventRoutes(api)
		r.setupSeatRoutes(api)
		r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api)
		r.setupCancellationRoutes(api)
		r.setupAnalyticsRoutes(api)
	}
}

// NotificationResolver exposes the booking-to-recipient lookup the email
// consumer needs. Call after SetupRoutes.
func (r *Router) NotificationResolver() notifications.RecipientResolver {
	return &bookingRecipientResolver{
		bookings: r.bookingService,
		users:    r.authRepo,
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "dexotix-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "dexotix-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	r.authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	sessions := auth.NewSessionStore(r.db.GetRedis())
	authService := auth.NewService(r.authRepo, sessions, r.config)
	authController := auth.NewController(authService)

	auth.SetupAuthRoutes(rg, authController)
}

func (r *Router) setupTagRoutes(rg *gin.RouterGroup) {
	tagRepo := tags.NewRepository(r.db.GetPostgreSQL())
	tagService := tags.NewService(tagRepo)
	if r.cacheService != nil {
		tagService.SetCacheService(r.cacheService)
	}
	tagController := tags.NewController(tagService)

	r.tagService = tagService
	tags.SetupTagRoutes(rg, tagController)
}

func (r *Router) setupVenueRoutes(rg *gin.RouterGroup) {
	venueRepo := venues.NewRepository(r.db.GetPostgreSQL())
	venueService := venues.NewService(venueRepo)
	if r.cacheService != nil {
		venueService.SetCacheService(r.cacheService)
	}
	venueController := venues.NewController(venueService)

	r.venueService = venueService
	venues.SetupVenueRoutes(rg, venueController)
}

func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo, r.tagService, r.venueService, r.config.Occurrence)
	if r.cacheService != nil {
		eventService.SetCacheService(r.cacheService)
	}
	eventController := events.NewController(eventService)

	r.eventService = eventService
	events.SetupEventRoutes(rg, eventController)
}

func (r *Router) setupSeatRoutes(rg *gin.RouterGroup) {
	seatRepo := seats.NewRepository(r.db.GetPostgreSQL(), r.db.GetRedis())
	holds := seats.NewAtomicHoldStore(r.db.GetRedis())
	seatService := seats.NewService(seatRepo, holds, r.venueService, r.eventService, r.config.Redis.SeatHoldTTL)
	if r.cacheService != nil {
		seatService.SetCacheService(r.cacheService)
	}
	seatController := seats.NewController(seatService)

	r.seatService = seatService
	seats.SetupSeatRoutes(rg, seatController)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, r.seatService, r.eventService, r.venueService, r.producer, r.metrics)
	bookingController := bookings.NewController(bookingService)

	r.bookingService = bookingService
	bookings.SetupBookingRoutes(rg, bookingController)
}

func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup) {
	paymentRepo := payments.NewRepository(r.db.GetPostgreSQL())
	gateway := payments.NewGateway(r.config.Payment)
	paymentService := payments.NewService(paymentRepo, r.bookingService, gateway, r.producer, r.metrics, r.config.Payment)
	paymentController := payments.NewController(paymentService)

	r.paymentService = paymentService
	payments.SetupPaymentRoutes(rg, paymentController)
}

func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup) {
	cancellationRepo := cancellation.NewRepository(r.db.GetPostgreSQL())
	cancellationService := cancellation.NewService(cancellationRepo, r.bookingService, r.paymentService)
	cancellationController := cancellation.NewController(cancellationService)

	cancellation.SetupCancellationRoutes(rg, cancellationController)
}

func (r *Router) setupAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsRepo := analytics.NewRepository(r.db.GetPostgreSQL())
	analyticsService := analytics.NewService(analyticsRepo)
	if r.cacheService != nil {
		analyticsService.SetCacheService(r.cacheService)
	}
	analyticsController := analytics.NewController(analyticsService)

	analytics.SetupAnalyticsRoutes(rg, analyticsController)
}

// bookingRecipientResolver joins a booking to its user so the email consumer
// can address notifications.
type bookingRecipientResolver struct {
	bookings bookings.Service
	users    auth.Repository
}

func (r *bookingRecipientResolver) ResolveBooking(ctx context.Context, bookingID uuid.UUID) (*notifications.BookingRecipient, error) {
	booking, err := r.bookings.GetBookingRecord(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("booking lookup failed: %w", err)
	}

	user, err := r.users.GetUserByID(ctx, booking.UserID.String())
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}

	return &notifications.BookingRecipient{
		Email:      user.Email,
		Name:       user.FirstName + " " + user.LastName,
		BookingRef: booking.BookingRef,
	}, nil
}
