package app

import (
	"opps-backend/internal/auth"
	"opps-backend/internal/config"
	"opps-backend/internal/dashboard"
	"opps-backend/internal/database"
	"opps-backend/internal/health"
	"opps-backend/internal/ingestion"
	"opps-backend/internal/middleware"
	"opps-backend/internal/opportunities"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with global middleware and all routes. db
// and rdb are nil when DATABASE_URL / REDIS_URL are not set; the affected
// routes then degrade instead of failing startup.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		sessionHandler, client, err := middleware.Session(sessionCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = client
		app.Use(sessionHandler)
		app.Use(middleware.HealthMarker(rdb))
	}

	app.Use(middleware.RequestID())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// Health
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			healthHandlers.DB = sqlDB
		}
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	// Auth
	var userFinder auth.UserFinder
	if db != nil {
		userFinder = &auth.GormUserFinder{DB: db}
	}
	authHandlers := &auth.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Opportunity + dashboard API. These routes stay open; the grid client
	// predates the session layer.
	if db != nil {
		oppService := &opportunities.Service{DB: db}
		oppHandlers := &opportunities.Handlers{Service: oppService}
		app.Get("/api/opportunities", oppHandlers.GetOpportunities)
		app.Post("/api/opportunities", oppHandlers.CreateOpportunity)
		app.Put("/api/opportunities/:uid", oppHandlers.UpdateOpportunity)
		app.Delete("/api/opportunities/:uid", oppHandlers.DeleteOpportunity)
		app.Get("/api/opportunities/:uid/revisions", oppHandlers.GetRevisions)
		app.Get("/api/opportunities/:uid/forecast-revisions", oppHandlers.GetForecastRevisions)

		// Bulk import is the one write the grid client never issues; it
		// requires a logged-in session.
		importHandlers := &ingestion.Handlers{Service: &ingestion.Service{Opportunities: oppService}}
		app.Post("/api/opportunities/import", middleware.RequireAuth(), importHandlers.Import)

		dashService := &dashboard.Service{DB: db}
		dashHandlers := &dashboard.Handlers{Service: dashService}
		app.Get("/api/dashboard", dashHandlers.WinLoss)
		app.Get("/api/forecast-dashboard", dashHandlers.Forecast)
		app.Get("/api/forecast-dashboard-weeks", dashHandlers.ForecastWeeks)
		app.Get("/api/forecast-revision-summary", dashHandlers.RevisionSummary)
	}

	return app, db, rdb, nil
}
