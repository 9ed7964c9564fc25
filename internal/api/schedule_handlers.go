package api

import (
	"time"

	"medminder/internal/models"
	"medminder/internal/schedule"
	"medminder/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// timeNow is swapped out by tests that need a fixed clock.
var timeNow = time.Now

func TodayScheduleHandler(store storage.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		medications, err := store.Medications()
		if err != nil {
			return err
		}
		logs, err := store.Logs()
		if err != nil {
			return err
		}

		now := timeNow().In(loc)
		entries := schedule.DeriveDay(medications, logs, now, now, loc)

		return c.JSON(fiber.Map{
			"greeting": schedule.Greeting(now),
			"date":     now.Format("Monday, January 2"),
			"entries":  entries,
		})
	}
}

func WeekScheduleHandler(store storage.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		medications, err := store.Medications()
		if err != nil {
			return err
		}
		logs, err := store.Logs()
		if err != nil {
			return err
		}

		now := timeNow().In(loc)
		week := schedule.DeriveWeek(medications, logs, now, now, loc)

		return c.JSON(week)
	}
}

// MarkTakenHandler records a 'taken' acknowledgment for one of today's doses.
// The log id is derived from the medication and the scheduled instant, so
// marking the same dose twice replaces the earlier acknowledgment rather than
// duplicating it.
func MarkTakenHandler(store storage.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.MarkTakenRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		medications, err := store.Medications()
		if err != nil {
			return err
		}
		var medication *models.Medication
		for i := range medications {
			if medications[i].ID == req.MedicationID {
				medication = &medications[i]
				break
			}
		}
		if medication == nil {
			return fiber.NewError(fiber.StatusNotFound, "Medication not found")
		}

		scheduled := false
		for _, t := range medication.Times {
			if t == req.Time {
				scheduled = true
				break
			}
		}
		if !scheduled {
			return fiber.NewError(fiber.StatusBadRequest, "Time is not one of the medication's scheduled times")
		}

		now := timeNow().In(loc)
		instant, err := schedule.At(now, req.Time, loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		takenAt := now
		log := models.DoseLog{
			ID:            schedule.LogID(medication.ID, instant),
			MedicationID:  medication.ID,
			ScheduledTime: instant,
			TakenAt:       &takenAt,
			Status:        models.StatusTaken,
		}

		if err := store.AddLog(log); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(log)
	}
}
