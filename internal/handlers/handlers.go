package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mohamedm999/TruckFlow/internal/config"
	"github.com/mohamedm999/TruckFlow/internal/middleware"
	"github.com/mohamedm999/TruckFlow/internal/models"
	"github.com/mohamedm999/TruckFlow/internal/repository"
	"github.com/mohamedm999/TruckFlow/internal/service"
	"github.com/mohamedm999/TruckFlow/internal/session"
	"github.com/mohamedm999/TruckFlow/internal/storage"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	db            *pgxpool.Pool
	cache         *redis.Client
	store         *storage.ObjectStore
	authService   *service.AuthService
	notifier      *service.NotificationService
	users         *repository.UserRepository
	trucks        *repository.TruckRepository
	trailers      *repository.TrailerRepository
	tires         *repository.TireRepository
	trips         *repository.TripRepository
	fuel          *repository.FuelRepository
	maintenance   *repository.MaintenanceRepository
	notifications *repository.NotificationRepository
	reports       *repository.ReportRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	sessions := session.NewStore(cache, cfg.Security.RefreshTTL)
	auth := service.NewAuthService(userRepo, sessions, cfg, log)
	notifier := service.NewNotificationService(notificationRepo, userRepo, log)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		db:            db,
		cache:         cache,
		store:         store,
		authService:   auth,
		notifier:      notifier,
		users:         userRepo,
		trucks:        repository.NewTruckRepository(db),
		trailers:      repository.NewTrailerRepository(db),
		tires:         repository.NewTireRepository(db),
		trips:         repository.NewTripRepository(db),
		fuel:          repository.NewFuelRepository(db),
		maintenance:   repository.NewMaintenanceRepository(db),
		notifications: notificationRepo,
		reports:       repository.NewReportRepository(db),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.Use(middleware.RateLimit(h.cache, h.cfg.RateLimit, "api", h.cfg.RateLimit.APIMax, h.log))

	router.GET("/health", h.Health)

	authGate := middleware.Auth(h.cfg, h.users, h.log)
	adminOnly := middleware.RequireRoles(models.UserRoleAdmin)

	auth := router.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimit(h.cache, h.cfg.RateLimit, "login", h.cfg.RateLimit.LoginMax, h.log), h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/logout", h.Logout)

		auth.GET("/me", authGate, h.Me)
		auth.PUT("/password", authGate, middleware.RateLimit(h.cache, h.cfg.RateLimit, "password", h.cfg.RateLimit.LoginMax, h.log), h.UpdatePassword)
		auth.POST("/logout-all", authGate, h.LogoutAll)
	}

	users := router.Group("/users", authGate, adminOnly)
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	trucks := router.Group("/trucks", authGate)
	{
		trucks.GET("", h.ListTrucks)
		trucks.GET("/:id", h.GetTruck)
		trucks.POST("", adminOnly, h.CreateTruck)
		trucks.PUT("/:id", adminOnly, h.UpdateTruck)
		trucks.DELETE("/:id", adminOnly, h.DeleteTruck)
	}

	trailers := router.Group("/trailers", authGate)
	{
		trailers.GET("", h.ListTrailers)
		trailers.GET("/:id", h.GetTrailer)
		trailers.POST("", adminOnly, h.CreateTrailer)
		trailers.PUT("/:id", adminOnly, h.UpdateTrailer)
		trailers.DELETE("/:id", adminOnly, h.DeleteTrailer)
	}

	tires := router.Group("/tires", authGate)
	{
		tires.GET("", h.ListTires)
		tires.GET("/:id", h.GetTire)
		tires.POST("", adminOnly, h.CreateTire)
		tires.PUT("/:id", adminOnly, h.UpdateTire)
		tires.DELETE("/:id", adminOnly, h.DeleteTire)
	}

	trips := router.Group("/trips", authGate)
	{
		trips.GET("", h.ListTrips)
		trips.GET("/my", h.ListMyTrips)
		trips.GET("/:id", h.GetTrip)
		trips.GET("/:id/pdf", h.TripPDF)
		trips.POST("", adminOnly, h.CreateTrip)
		trips.PUT("/:id", adminOnly, h.UpdateTrip)
		trips.DELETE("/:id", adminOnly, h.DeleteTrip)
		trips.PATCH("/:id/status", h.UpdateTripStatus)
		trips.PATCH("/:id/mileage", h.UpdateTripMileage)
	}

	fuel := router.Group("/fuel", authGate)
	{
		fuel.GET("", h.ListFuelRecords)
		fuel.GET("/:id", h.GetFuelRecord)
		fuel.POST("", h.CreateFuelRecord)
		fuel.PUT("/:id", adminOnly, h.UpdateFuelRecord)
		fuel.DELETE("/:id", adminOnly, h.DeleteFuelRecord)
	}

	maintenance := router.Group("/maintenance", authGate)
	{
		maintenance.GET("", h.ListMaintenance)
		maintenance.GET("/:id", h.GetMaintenance)
		maintenance.GET("/vehicle/:vehicleType/:vehicleId", h.VehicleMaintenanceHistory)
		maintenance.POST("", adminOnly, h.CreateMaintenance)
		maintenance.PUT("/:id", adminOnly, h.UpdateMaintenance)
		maintenance.DELETE("/:id", adminOnly, h.DeleteMaintenance)
	}

	notifications := router.Group("/notifications", authGate)
	{
		notifications.GET("", h.ListNotifications)
		notifications.PATCH("/:id/read", h.MarkNotificationRead)
		notifications.PATCH("/read-all", h.MarkAllNotificationsRead)
	}

	reports := router.Group("/reports", authGate)
	{
		reports.GET("/dashboard", h.DashboardReport)
		reports.GET("/trip-statistics", h.TripStatisticsReport)
		reports.GET("/fuel-consumption", adminOnly, h.FuelConsumptionReport)
		reports.GET("/maintenance-costs", adminOnly, h.MaintenanceCostsReport)
	}
}
