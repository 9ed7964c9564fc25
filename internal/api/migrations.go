package api

import (
	"sort"

	"medminder/internal/storage"
)

// MigrateZeroPadTimes normalizes legacy single-digit-hour times ("9:00") to
// the zero-padded "09:00" form and re-sorts each medication's time list. Day
// schedules are ordered by plain string comparison, which only holds for the
// fixed-width format. Idempotent.
func MigrateZeroPadTimes(store storage.Store) error {
	medications, err := store.Medications()
	if err != nil {
		return err
	}

	changed := false
	for i, m := range medications {
		for j, t := range m.Times {
			if len(t) == 4 && t[1] == ':' {
				medications[i].Times[j] = "0" + t
				changed = true
			}
		}
		if !sort.StringsAreSorted(medications[i].Times) {
			sort.Strings(medications[i].Times)
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return store.SaveMedications(medications)
}
