package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"medminder/internal/models"
)

// Entry is one expected dose on one calendar day, with its effective status
// computed against the clock and the acknowledgment log.
type Entry struct {
	Medication models.Medication `json:"medication"`
	Time       string            `json:"time"`
	Scheduled  time.Time         `json:"scheduled_time"`
	Status     models.DoseStatus `json:"status"`
}

// Day is the derived schedule for a single calendar day.
type Day struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	IsToday bool    `json:"is_today"`
	Entries []Entry `json:"entries"`
}

// ParseTimeOfDay validates a zero-padded 24-hour "HH:MM" string. The fixed
// width is load-bearing: day schedules are ordered by plain string comparison.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("time %q must be in HH:MM format", s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, fmt.Errorf("time %q must be in HH:MM format", s)
		}
	}
	hour, herr := strconv.Atoi(s[:2])
	minute, merr := strconv.Atoi(s[3:])
	if herr != nil || merr != nil {
		return 0, 0, fmt.Errorf("time %q must be in HH:MM format", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q is out of range", s)
	}
	return hour, minute, nil
}

// At composes a scheduled instant from a day and a time-of-day, as local wall
// clock in loc. Composing via time.Date keeps "09:00" at 09:00 local across
// daylight-saving transitions.
func At(day time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// LogID builds the natural key for a dose acknowledgment: medication id plus
// the scheduled instant in unix milliseconds.
func LogID(medicationID string, scheduled time.Time) string {
	return fmt.Sprintf("%s-%d", medicationID, scheduled.UnixMilli())
}

// DeriveDay expands every medication's time list onto the given calendar day
// and resolves each dose's effective status:
//
//   - a persisted log with status 'taken' for the same medication, day and
//     HH:MM wins, regardless of seconds drift in the stored timestamp
//   - otherwise a scheduled instant strictly before now is missed
//   - otherwise the dose is still pending
//
// Missed and pending are never persisted; they are re-judged on every call.
// Entries come back sorted by time-of-day ascending, stable for equal times so
// medication input order is preserved.
func DeriveDay(meds []models.Medication, logs []models.DoseLog, day, now time.Time, loc *time.Location) []Entry {
	entries := []Entry{}

	for _, med := range meds {
		for _, hhmm := range med.Times {
			scheduled, err := At(day, hhmm, loc)
			if err != nil {
				// Malformed stored time: no row rather than a fault.
				continue
			}

			status := models.StatusPending
			if log, ok := findLog(logs, med.ID, scheduled, hhmm, loc); ok && log.Status == models.StatusTaken {
				status = models.StatusTaken
			} else if scheduled.Before(now) {
				status = models.StatusMissed
			}

			entries = append(entries, Entry{
				Medication: med,
				Time:       hhmm,
				Scheduled:  scheduled,
				Status:     status,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Time < entries[j].Time
	})

	return entries
}

// DeriveWeek derives the next 7 calendar days (start plus 6 forward), each day
// independently from the full medication and log sets.
func DeriveWeek(meds []models.Medication, logs []models.DoseLog, start, now time.Time, loc *time.Location) []Day {
	today := start.In(loc)
	week := make([]Day, 0, 7)

	for i := 0; i < 7; i++ {
		day := today.AddDate(0, 0, i)
		week = append(week, Day{
			Date:    day.Format("2006-01-02"),
			Weekday: day.Weekday().String(),
			IsToday: i == 0,
			Entries: DeriveDay(meds, logs, day, now, loc),
		})
	}

	return week
}

// findLog matches an acknowledgment by medication, calendar day and HH:MM at
// minute resolution. Matching on the time-of-day component (not exact instant
// equality) tolerates seconds or millisecond drift in stored timestamps.
func findLog(logs []models.DoseLog, medicationID string, scheduled time.Time, hhmm string, loc *time.Location) (models.DoseLog, bool) {
	y, m, d := scheduled.In(loc).Date()
	for _, log := range logs {
		if log.MedicationID != medicationID {
			continue
		}
		st := log.ScheduledTime.In(loc)
		ly, lm, ld := st.Date()
		if ly == y && lm == m && ld == d && st.Format("15:04") == hhmm {
			return log, true
		}
	}
	return models.DoseLog{}, false
}

// Greeting picks the salutation shown on the home view for the given clock.
func Greeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "Good Morning"
	case hour < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}
