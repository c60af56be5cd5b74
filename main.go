package main

import (
	"os"
	"time"

	"smsburst-backend/auth"
	"smsburst-backend/config"
	"smsburst-backend/controllers"
	"smsburst-backend/database"
	"smsburst-backend/deploy"
	"smsburst-backend/ledger"
	"smsburst-backend/middlewares"
	"smsburst-backend/ratelimit"
	"smsburst-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	jwtm, err := auth.NewJWTManager(cfg.JWTSecret, auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("auth not configured")
	}

	keys := auth.NewKeyStore(db, ratelimit.New(), cfg.MasterAPIKey, log)
	if err := keys.SeedMasterKey(); err != nil {
		log.Fatal().Err(err).Msg("master key seeding failed")
	}

	ldgr := ledger.New(db)
	devices := auth.NewDeviceTracker(db)
	client := deploy.NewClient(cfg.RenderAPIURL, cfg.RenderAPIKey,
		time.Duration(cfg.DeployTimeout)*time.Second)
	orchestrator := deploy.NewOrchestrator(db, ldgr, client, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, X-API-Key, Idempotency-Key",
	}))

	// Global per-IP limiter in front of everything; per-key limiting happens
	// in the key store.
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	routes.Register(app, routes.Deps{
		DB:   db,
		JWT:  jwtm,
		Keys: keys,
		Auth: &controllers.AuthController{
			DB:             db,
			JWT:            jwtm,
			Devices:        devices,
			Production:     cfg.Production,
			InitialCredits: cfg.InitialCredits,
			SignupIPLimit:  cfg.SignupIPLimit,
		},
		Campaign: &controllers.CampaignController{DB: db},
		Credit: &controllers.CreditController{
			DB:           db,
			Ledger:       ldgr,
			ContactPhone: cfg.ContactPhone,
		},
		Render: &controllers.RenderController{Orchestrator: orchestrator},
		Admin: &controllers.AdminController{
			DB:               db,
			DefaultRateLimit: cfg.DefaultRateLimit,
		},
	})

	log.Info().Str("port", cfg.Port).Msg("API server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
