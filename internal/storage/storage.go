package storage

import "medminder/internal/models"

// Logical keys for the three persisted collections.
const (
	KeyMedications = "medications"
	KeyLogs        = "medication_logs"
	KeyProfile     = "user_profile"
)

// Store is the persistence gateway handed to handlers and workers. Reads of an
// absent collection return an empty result, never an error. Every write
// replaces the whole collection (last write wins); callers must not rely on
// cross-key atomicity.
type Store interface {
	Medications() ([]models.Medication, error)
	SaveMedications(meds []models.Medication) error
	AddMedication(med models.Medication) error
	DeleteMedication(id string) error

	Logs() ([]models.DoseLog, error)
	SaveLogs(logs []models.DoseLog) error
	// AddLog upserts by log ID: a second acknowledgment of the same
	// (medication, scheduled instant) replaces the first instead of
	// duplicating it.
	AddLog(log models.DoseLog) error
	// UpdateLog applies a patch to the log with the given ID. Unknown IDs
	// are a no-op.
	UpdateLog(id string, patch models.DoseLogPatch) error

	Profile() (*models.UserProfile, error)
	SaveProfile(profile models.UserProfile) error
}

func applyLogPatch(log models.DoseLog, patch models.DoseLogPatch) models.DoseLog {
	if patch.TakenAt != nil {
		log.TakenAt = patch.TakenAt
	}
	if patch.Status != nil {
		log.Status = *patch.Status
	}
	return log
}
