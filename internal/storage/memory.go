package storage

import (
	"sync"

	"medminder/internal/models"
)

// MemoryStore is an in-memory Store used by tests and local experiments. It
// mirrors the durable store's semantics: whole-collection reads and writes,
// empty results for never-written collections.
type MemoryStore struct {
	mu      sync.RWMutex
	meds    []models.Medication
	logs    []models.DoseLog
	profile *models.UserProfile
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Medications() ([]models.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Medication, len(s.meds))
	copy(out, s.meds)
	return out, nil
}

func (s *MemoryStore) SaveMedications(meds []models.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meds = make([]models.Medication, len(meds))
	copy(s.meds, meds)
	return nil
}

func (s *MemoryStore) AddMedication(med models.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meds = append(s.meds, med)
	return nil
}

func (s *MemoryStore) DeleteMedication(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.meds[:0]
	for _, m := range s.meds {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.meds = kept
	return nil
}

func (s *MemoryStore) Logs() ([]models.DoseLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DoseLog, len(s.logs))
	copy(out, s.logs)
	return out, nil
}

func (s *MemoryStore) SaveLogs(logs []models.DoseLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = make([]models.DoseLog, len(logs))
	copy(s.logs, logs)
	return nil
}

func (s *MemoryStore) AddLog(log models.DoseLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.logs {
		if l.ID == log.ID {
			s.logs[i] = log
			return nil
		}
	}
	s.logs = append(s.logs, log)
	return nil
}

func (s *MemoryStore) UpdateLog(id string, patch models.DoseLogPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.logs {
		if l.ID == id {
			s.logs[i] = applyLogPatch(l, patch)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Profile() (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil, nil
	}
	p := *s.profile
	return &p, nil
}

func (s *MemoryStore) SaveProfile(profile models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &profile
	return nil
}
