package storage

import (
	"database/sql"
	"encoding/json"

	"medminder/internal/models"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLite wraps an initialized database handle in a Store.
func NewSQLite(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) get(key string, out interface{}) (bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM store WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *sqliteStore) set(key string, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(value),
	)
	return err
}

func (s *sqliteStore) Medications() ([]models.Medication, error) {
	meds := []models.Medication{}
	if _, err := s.get(KeyMedications, &meds); err != nil {
		return nil, err
	}
	return meds, nil
}

func (s *sqliteStore) SaveMedications(meds []models.Medication) error {
	return s.set(KeyMedications, meds)
}

func (s *sqliteStore) AddMedication(med models.Medication) error {
	meds, err := s.Medications()
	if err != nil {
		return err
	}
	return s.SaveMedications(append(meds, med))
}

func (s *sqliteStore) DeleteMedication(id string) error {
	meds, err := s.Medications()
	if err != nil {
		return err
	}
	kept := meds[:0]
	for _, m := range meds {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	return s.SaveMedications(kept)
}

func (s *sqliteStore) Logs() ([]models.DoseLog, error) {
	logs := []models.DoseLog{}
	if _, err := s.get(KeyLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *sqliteStore) SaveLogs(logs []models.DoseLog) error {
	return s.set(KeyLogs, logs)
}

func (s *sqliteStore) AddLog(log models.DoseLog) error {
	logs, err := s.Logs()
	if err != nil {
		return err
	}
	for i, l := range logs {
		if l.ID == log.ID {
			logs[i] = log
			return s.SaveLogs(logs)
		}
	}
	return s.SaveLogs(append(logs, log))
}

func (s *sqliteStore) UpdateLog(id string, patch models.DoseLogPatch) error {
	logs, err := s.Logs()
	if err != nil {
		return err
	}
	for i, l := range logs {
		if l.ID == id {
			logs[i] = applyLogPatch(l, patch)
			return s.SaveLogs(logs)
		}
	}
	return nil
}

func (s *sqliteStore) Profile() (*models.UserProfile, error) {
	var profile models.UserProfile
	found, err := s.get(KeyProfile, &profile)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &profile, nil
}

func (s *sqliteStore) SaveProfile(profile models.UserProfile) error {
	return s.set(KeyProfile, profile)
}
