package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"medminder/internal/database"
	"medminder/internal/models"
	"medminder/internal/schedule"
	"medminder/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// Fixed clock for deterministic status derivation: 10:00 UTC on 2026-08-31.
var testNow = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func setupTestApp(t *testing.T) (*fiber.App, storage.Store) {
	db, err := database.Initialize(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	prev := timeNow
	timeNow = func() time.Time { return testNow }
	t.Cleanup(func() { timeNow = prev })

	store := storage.NewSQLite(db)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	SetupRoutes(app, store, time.UTC)
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody
}

func addMedication(t *testing.T, app *fiber.App, name string, times ...string) models.Medication {
	status, body := doJSON(t, app, "POST", "/api/medications/", models.CreateMedicationRequest{
		Name:  name,
		Dose:  "100mg",
		Times: times,
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d: %s", status, string(body))
	}
	var med models.Medication
	json.Unmarshal(body, &med)
	return med
}

type todayResponse struct {
	Greeting string           `json:"greeting"`
	Date     string           `json:"date"`
	Entries  []schedule.Entry `json:"entries"`
}

func TestCreateMedication(t *testing.T) {
	app, _ := setupTestApp(t)

	med := addMedication(t, app, "Aspirin", "21:00", "09:00")

	if med.ID == "" {
		t.Fatal("Expected generated medication id")
	}
	if med.Name != "Aspirin" {
		t.Fatalf("Expected name Aspirin, got %s", med.Name)
	}
	if med.Frequency != models.FrequencyDaily {
		t.Fatalf("Expected default frequency daily, got %s", med.Frequency)
	}
	if len(med.Times) != 2 || med.Times[0] != "09:00" || med.Times[1] != "21:00" {
		t.Fatalf("Expected times sorted ascending, got %v", med.Times)
	}
	if !med.CreatedAt.Equal(testNow) || !med.StartDate.Equal(testNow) {
		t.Fatalf("Expected timestamps stamped with current time, got %v / %v", med.CreatedAt, med.StartDate)
	}
}

func TestCreateMedicationValidation(t *testing.T) {
	app, store := setupTestApp(t)

	cases := []struct {
		name string
		req  models.CreateMedicationRequest
	}{
		{"missing name", models.CreateMedicationRequest{Dose: "100mg", Times: []string{"09:00"}}},
		{"missing dose", models.CreateMedicationRequest{Name: "Aspirin", Times: []string{"09:00"}}},
		{"no times", models.CreateMedicationRequest{Name: "Aspirin", Dose: "100mg"}},
		{"malformed time", models.CreateMedicationRequest{Name: "Aspirin", Dose: "100mg", Times: []string{"9:00"}}},
		{"unknown frequency", models.CreateMedicationRequest{Name: "Aspirin", Dose: "100mg", Times: []string{"09:00"}, Frequency: "hourly"}},
	}
	for _, c := range cases {
		status, body := doJSON(t, app, "POST", "/api/medications/", c.req)
		if status != 400 {
			t.Fatalf("%s: expected status 400, got %d: %s", c.name, status, string(body))
		}
	}

	// Nothing may be persisted by a rejected request.
	meds, err := store.Medications()
	if err != nil {
		t.Fatal(err)
	}
	if len(meds) != 0 {
		t.Fatalf("Expected no medications persisted, got %d", len(meds))
	}
}

func TestListAndDeleteMedication(t *testing.T) {
	app, _ := setupTestApp(t)

	med := addMedication(t, app, "Aspirin", "09:00")
	addMedication(t, app, "Metformin", "08:00")

	status, body := doJSON(t, app, "GET", "/api/medications/", nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	var meds []models.Medication
	json.Unmarshal(body, &meds)
	if len(meds) != 2 {
		t.Fatalf("Expected 2 medications, got %d", len(meds))
	}

	status, _ = doJSON(t, app, "DELETE", "/api/medications/"+med.ID, nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}

	status, _ = doJSON(t, app, "DELETE", "/api/medications/"+med.ID, nil)
	if status != 404 {
		t.Fatalf("Expected status 404 for repeated delete, got %d", status)
	}

	_, body = doJSON(t, app, "GET", "/api/medications/", nil)
	json.Unmarshal(body, &meds)
	if len(meds) != 1 || meds[0].Name != "Metformin" {
		t.Fatalf("Expected only Metformin to remain, got %+v", meds)
	}
}

func TestTodaySchedule(t *testing.T) {
	app, _ := setupTestApp(t)

	addMedication(t, app, "Aspirin", "09:00", "21:00")

	status, body := doJSON(t, app, "GET", "/api/schedule/today", nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %s", status, string(body))
	}

	var today todayResponse
	json.Unmarshal(body, &today)

	if today.Greeting != "Good Morning" {
		t.Fatalf("Expected Good Morning at 10:00, got %q", today.Greeting)
	}
	if len(today.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(today.Entries))
	}
	if today.Entries[0].Time != "09:00" || today.Entries[0].Status != models.StatusMissed {
		t.Fatalf("Expected 09:00 missed, got %s %s", today.Entries[0].Time, today.Entries[0].Status)
	}
	if today.Entries[1].Time != "21:00" || today.Entries[1].Status != models.StatusPending {
		t.Fatalf("Expected 21:00 pending, got %s %s", today.Entries[1].Time, today.Entries[1].Status)
	}
}

func TestMarkTaken(t *testing.T) {
	app, store := setupTestApp(t)

	med := addMedication(t, app, "Aspirin", "09:00", "21:00")

	status, body := doJSON(t, app, "POST", "/api/doses/taken", models.MarkTakenRequest{
		MedicationID: med.ID,
		Time:         "09:00",
	})
	if status != 201 {
		t.Fatalf("Expected status 201, got %d: %s", status, string(body))
	}

	var log models.DoseLog
	json.Unmarshal(body, &log)
	if log.Status != models.StatusTaken {
		t.Fatalf("Expected status taken, got %s", log.Status)
	}
	if log.TakenAt == nil || !log.TakenAt.Equal(testNow) {
		t.Fatalf("Expected taken_at stamped with current time, got %v", log.TakenAt)
	}
	wantID := schedule.LogID(med.ID, time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))
	if log.ID != wantID {
		t.Fatalf("Expected log id %q, got %q", wantID, log.ID)
	}

	// Re-derive: the 09:00 dose flips from missed to taken.
	_, body = doJSON(t, app, "GET", "/api/schedule/today", nil)
	var today todayResponse
	json.Unmarshal(body, &today)
	if today.Entries[0].Status != models.StatusTaken {
		t.Fatalf("Expected 09:00 taken after acknowledgment, got %s", today.Entries[0].Status)
	}
	if today.Entries[1].Status != models.StatusPending {
		t.Fatalf("Expected 21:00 still pending, got %s", today.Entries[1].Status)
	}

	// Marking the same dose again must not duplicate the log.
	status, _ = doJSON(t, app, "POST", "/api/doses/taken", models.MarkTakenRequest{
		MedicationID: med.ID,
		Time:         "09:00",
	})
	if status != 201 {
		t.Fatalf("Expected status 201 on re-mark, got %d", status)
	}
	logs, err := store.Logs()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected a single log after double mark, got %d", len(logs))
	}
}

func TestMarkTakenRejectsBadInput(t *testing.T) {
	app, _ := setupTestApp(t)

	med := addMedication(t, app, "Aspirin", "09:00")

	status, _ := doJSON(t, app, "POST", "/api/doses/taken", models.MarkTakenRequest{
		MedicationID: "unknown",
		Time:         "09:00",
	})
	if status != 404 {
		t.Fatalf("Expected status 404 for unknown medication, got %d", status)
	}

	status, _ = doJSON(t, app, "POST", "/api/doses/taken", models.MarkTakenRequest{
		MedicationID: med.ID,
		Time:         "10:00",
	})
	if status != 400 {
		t.Fatalf("Expected status 400 for unscheduled time, got %d", status)
	}
}

func TestWeekSchedule(t *testing.T) {
	app, _ := setupTestApp(t)

	med := addMedication(t, app, "Aspirin", "09:00", "21:00")
	doJSON(t, app, "POST", "/api/doses/taken", models.MarkTakenRequest{
		MedicationID: med.ID,
		Time:         "09:00",
	})

	status, body := doJSON(t, app, "GET", "/api/schedule/week", nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}

	var week []schedule.Day
	json.Unmarshal(body, &week)
	if len(week) != 7 {
		t.Fatalf("Expected 7 days, got %d", len(week))
	}
	if !week[0].IsToday {
		t.Fatal("Expected first day flagged as today")
	}
	for i, day := range week {
		if len(day.Entries) != 2 {
			t.Fatalf("Day %d: expected 2 entries, got %d", i, len(day.Entries))
		}
	}
	if week[0].Entries[0].Status != models.StatusTaken {
		t.Fatalf("Expected today's 09:00 taken, got %s", week[0].Entries[0].Status)
	}
	if week[1].Entries[0].Status != models.StatusPending {
		t.Fatalf("Expected tomorrow's 09:00 pending, got %s", week[1].Entries[0].Status)
	}
}

func TestProfileLifecycle(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := doJSON(t, app, "GET", "/api/profile", nil)
	if status != 404 {
		t.Fatalf("Expected status 404 before first save, got %d", status)
	}

	status, _ = doJSON(t, app, "PUT", "/api/profile", models.SaveProfileRequest{Name: "Margaret"})
	if status != 400 {
		t.Fatalf("Expected status 400 for missing age, got %d", status)
	}

	status, body := doJSON(t, app, "PUT", "/api/profile", models.SaveProfileRequest{
		Name:          "Margaret",
		Age:           72,
		CaregiverName: "Tom",
	})
	if status != 200 {
		t.Fatalf("Expected status 200, got %d: %s", status, string(body))
	}
	var saved models.UserProfile
	json.Unmarshal(body, &saved)
	if saved.Timezone != "UTC" {
		t.Fatalf("Expected timezone defaulted to UTC, got %q", saved.Timezone)
	}

	status, body = doJSON(t, app, "GET", "/api/profile", nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
	var got models.UserProfile
	json.Unmarshal(body, &got)
	if got.Name != "Margaret" || got.Age != 72 || got.CaregiverName != "Tom" {
		t.Fatalf("Profile round-trip mismatch: %+v", got)
	}
}

func TestMigrateZeroPadTimes(t *testing.T) {
	_, store := setupTestApp(t)

	// Seed a legacy record with a non-padded hour and unsorted times.
	legacy := models.Medication{
		ID:        "legacy",
		Name:      "Aspirin",
		Dose:      "100mg",
		Frequency: models.FrequencyDaily,
		Times:     []string{"21:00", "9:00"},
		CreatedAt: testNow,
	}
	if err := store.SaveMedications([]models.Medication{legacy}); err != nil {
		t.Fatal(err)
	}

	if err := MigrateZeroPadTimes(store); err != nil {
		t.Fatal(err)
	}

	meds, err := store.Medications()
	if err != nil {
		t.Fatal(err)
	}
	if len(meds[0].Times) != 2 || meds[0].Times[0] != "09:00" || meds[0].Times[1] != "21:00" {
		t.Fatalf("Expected normalized sorted times, got %v", meds[0].Times)
	}

	// Idempotent.
	if err := MigrateZeroPadTimes(store); err != nil {
		t.Fatal(err)
	}
	meds, _ = store.Medications()
	if meds[0].Times[0] != "09:00" || meds[0].Times[1] != "21:00" {
		t.Fatalf("Second run changed data: %v", meds[0].Times)
	}
}

func TestScanMissedDoses(t *testing.T) {
	app, store := setupTestApp(t)

	addMedication(t, app, "Aspirin", "09:00", "21:00")

	// The scan only recomputes and logs; it must never persist a missed
	// status or touch existing data.
	if err := ScanMissedDoses(store, time.UTC); err != nil {
		t.Fatal(err)
	}

	logs, err := store.Logs()
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Fatalf("Scan must not persist logs, got %d", len(logs))
	}
}

func TestHealthCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := doJSON(t, app, "GET", "/health", nil)
	if status != 200 {
		t.Fatalf("Expected status 200, got %d", status)
	}
}
