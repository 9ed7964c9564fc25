package api

import (
	"log"
	"time"

	"medminder/internal/models"
	"medminder/internal/schedule"
	"medminder/internal/storage"
)

// ScanMissedDoses recomputes today's schedule and logs how many doses are
// overdue without an acknowledgment. It intentionally stops at logging: missed
// status is a live judgment, never written back, and no notification is sent.
func ScanMissedDoses(store storage.Store, loc *time.Location) error {
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

	missed := 0
	for _, e := range entries {
		if e.Status == models.StatusMissed {
			missed++
		}
	}

	if missed > 0 {
		log.Printf("Missed-dose scan: %d of %d doses overdue today", missed, len(entries))
	}
	return nil
}
