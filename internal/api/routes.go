package api

import (
	"time"

	"medminder/internal/storage"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, store storage.Store, loc *time.Location) {
	api := app.Group("/api")

	// Medication routes
	medications := api.Group("/medications")
	medications.Post("/", CreateMedicationHandler(store))
	medications.Get("/", ListMedicationsHandler(store))
	medications.Delete("/:id", DeleteMedicationHandler(store))

	// Derived schedule views
	api.Get("/schedule/today", TodayScheduleHandler(store, loc))
	api.Get("/schedule/week", WeekScheduleHandler(store, loc))

	// Dose acknowledgment
	api.Post("/doses/taken", MarkTakenHandler(store, loc))

	// Profile routes
	api.Get("/profile", GetProfileHandler(store))
	api.Put("/profile", SaveProfileHandler(store, loc))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
