package api

import (
	"strings"
	"time"

	"medminder/internal/models"
	"medminder/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetProfileHandler returns the saved profile. A 404 means no profile has been
// saved yet; the client treats that as "start in edit mode with defaults".
func GetProfileHandler(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		profile, err := store.Profile()
		if err != nil {
			return err
		}
		if profile == nil {
			return fiber.NewError(fiber.StatusNotFound, "Profile not set")
		}
		return c.JSON(profile)
	}
}

func SaveProfileHandler(store storage.Store, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SaveProfileRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if strings.TrimSpace(req.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if req.Age < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Age must be a positive number")
		}

		timezone := strings.TrimSpace(req.Timezone)
		if timezone == "" {
			timezone = loc.String()
		}

		profile := models.UserProfile{
			Name:             strings.TrimSpace(req.Name),
			Age:              req.Age,
			CaregiverName:    strings.TrimSpace(req.CaregiverName),
			CaregiverContact: strings.TrimSpace(req.CaregiverContact),
			Timezone:         timezone,
		}

		if err := store.SaveProfile(profile); err != nil {
			return err
		}

		return c.JSON(profile)
	}
}
