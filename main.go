package main

import (
	"log"

	"medminder/internal/api"
	"medminder/internal/config"
	"medminder/internal/database"
	"medminder/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	store := storage.NewSQLite(db)

	// Run migrations only if explicitly enabled (opt-in for safety)
	if cfg.RunMigrations {
		log.Println("Running data migrations...")
		if err := api.MigrateZeroPadTimes(store); err != nil {
			log.Printf("Migration error (zero-pad times): %v", err)
		}
	} else {
		log.Println("Migrations skipped (set RUN_MIGRATIONS=true to enable)")
	}

	// Run the missed-dose scan once at startup and then every minute. The
	// scan only recomputes and logs; it never persists a missed status.
	if cfg.EnableWorkers {
		log.Println("Starting background workers...")
		if err := api.ScanMissedDoses(store, cfg.Timezone); err != nil {
			log.Printf("Missed-dose scan error at startup: %v", err)
		}

		scheduler := cron.New(cron.WithLocation(cfg.Timezone))
		if _, err := scheduler.AddFunc("* * * * *", func() {
			if err := api.ScanMissedDoses(store, cfg.Timezone); err != nil {
				log.Printf("Missed-dose scan error: %v", err)
			}
		}); err != nil {
			log.Fatal("Failed to schedule missed-dose scan:", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Println("Background workers disabled (set ENABLE_WORKERS=true to enable)")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	log.Printf("CORS allowed origins: %s", cfg.AllowedOrigins)
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Setup routes
	api.SetupRoutes(app, store, cfg.Timezone)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
