package models

import "time"

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyAsNeeded Frequency = "as-needed"
)

// KnownFrequency reports whether f is one of the accepted frequency values.
func KnownFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyAsNeeded:
		return true
	}
	return false
}

type DoseStatus string

const (
	StatusPending DoseStatus = "pending"
	StatusTaken   DoseStatus = "taken"
	StatusMissed  DoseStatus = "missed"
)

type Medication struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Dose         string    `json:"dose"`
	Frequency    Frequency `json:"frequency"`
	Times        []string  `json:"times"`
	Instructions string    `json:"instructions,omitempty"`
	StartDate    time.Time `json:"start_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// DoseLog records that a user acknowledged a scheduled dose. Only 'taken'
// entries are ever persisted; pending/missed are recomputed at read time.
type DoseLog struct {
	ID            string     `json:"id"`
	MedicationID  string     `json:"medication_id"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	Status        DoseStatus `json:"status"`
	// Reserved for a future missed-dose notification flow; nothing sets it.
	MissedNotificationSent bool `json:"missed_notification_sent,omitempty"`
}

// DoseLogPatch enumerates the only fields a stored log may change to. Fields
// left nil are untouched by an update.
type DoseLogPatch struct {
	TakenAt *time.Time  `json:"taken_at,omitempty"`
	Status  *DoseStatus `json:"status,omitempty"`
}

type UserProfile struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	CaregiverName    string `json:"caregiver_name,omitempty"`
	CaregiverContact string `json:"caregiver_contact,omitempty"`
	Timezone         string `json:"timezone"`
}

type CreateMedicationRequest struct {
	Name         string    `json:"name"`
	Dose         string    `json:"dose"`
	Frequency    Frequency `json:"frequency,omitempty"`
	Times        []string  `json:"times"`
	Instructions string    `json:"instructions,omitempty"`
}

type MarkTakenRequest struct {
	MedicationID string `json:"medication_id"`
	Time         string `json:"time"`
}

type SaveProfileRequest struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	CaregiverName    string `json:"caregiver_name,omitempty"`
	CaregiverContact string `json:"caregiver_contact,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
}
