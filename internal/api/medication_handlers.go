package api

import (
	"sort"
	"strings"

	"medminder/internal/models"
	"medminder/internal/schedule"
	"medminder/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateMedicationHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateMedicationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Dose) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and dose are required")
		}
		if len(req.Times) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "At least one scheduled time is required")
		}
		for _, t := range req.Times {
			if _, _, err := schedule.ParseTimeOfDay(t); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		frequency := req.Frequency
		if frequency == "" {
			frequency = models.FrequencyDaily
		}
		if !models.KnownFrequency(frequency) {
			return fiber.NewError(fiber.StatusBadRequest, "Frequency must be daily, weekly, or as-needed")
		}

		times := make([]string, len(req.Times))
		copy(times, req.Times)
		sort.Strings(times)

		now := timeNow()
		medication := models.Medication{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(req.Name),
			Dose:         strings.TrimSpace(req.Dose),
			Frequency:    frequency,
			Times:        times,
			Instructions: strings.TrimSpace(req.Instructions),
			StartDate:    now,
			CreatedAt:    now,
		}

		if err := store.AddMedication(medication); err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(medication)
	}
}

func ListMedicationsHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		medications, err := store.Medications()
		if err != nil {
			return err
		}
		return c.JSON(medications)
	}
}

// DeleteMedicationHandler removes a medication by id. Dose logs referencing it
// are left in place; the deriver simply stops producing rows for it.
func DeleteMedicationHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		medications, err := store.Medications()
		if err != nil {
			return err
		}
		found := false
		for _, m := range medications {
			if m.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fiber.NewError(fiber.StatusNotFound, "Medication not found")
		}

		if err := store.DeleteMedication(id); err != nil {
			return err
		}

		return c.JSON(fiber.Map{"success": true})
	}
}
