package mem

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	dbt "yathra/db/db"
)

func (s *inMemoryStore) CreateTrip(t *dbt.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	tripCopy := *t
	s.trips[t.ID] = &tripCopy
	return nil
}

func matchesTripFilter(t *dbt.Trip, f dbt.TripFilter) bool {
	if f.TripType != nil && t.TripType != *f.TripType {
		return false
	}
	if f.VehicleID != nil && t.VehicleID != *f.VehicleID {
		return false
	}
	if f.ContractID != nil && (t.ContractID == nil || *t.ContractID != *f.ContractID) {
		return false
	}
	if f.SalaryPaid != nil && t.DriverSalaryPaid != *f.SalaryPaid {
		return false
	}
	if f.StartDate != nil && t.TripDate.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.TripDate.After(endOfDay(*f.EndDate)) {
		return false
	}
	return true
}

func (s *inMemoryStore) ListTrips(tenant uuid.UUID, f dbt.TripFilter, page, limit int) ([]dbt.Trip, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]dbt.Trip, 0)
	for _, t := range s.trips {
		if t.UserID != tenant {
			continue
		}
		if matchesTripFilter(t, f) {
			matched = append(matched, *t)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start, end := paginate(len(matched), page, limit)
	return matched[start:end], total, nil
}

func (s *inMemoryStore) GetTrip(tenant, id uuid.UUID) (*dbt.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trips[id]
	if !ok || t.UserID != tenant {
		return nil, fmt.Errorf("trip %s: %w", id, dbt.ErrNotFound)
	}
	tripCopy := *t
	return &tripCopy, nil
}

func (s *inMemoryStore) UpdateTrip(tenant uuid.UUID, t *dbt.Trip) (*dbt.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.trips[t.ID]
	if !ok || existing.UserID != tenant {
		return nil, fmt.Errorf("trip %s: %w", t.ID, dbt.ErrNotFound)
	}

	updated := *t
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	s.trips[t.ID] = &updated

	tripCopy := updated
	return &tripCopy, nil
}

func (s *inMemoryStore) DeleteTrip(tenant, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.trips[id]
	if !ok || t.UserID != tenant {
		return fmt.Errorf("trip %s: %w", id, dbt.ErrNotFound)
	}
	delete(s.trips, id)
	return nil
}

func (s *inMemoryStore) ListContractTrips(tenant, contractID uuid.UUID, start, end *time.Time) ([]dbt.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]dbt.Trip, 0)
	for _, t := range s.trips {
		if t.UserID != tenant || t.TripType != dbt.TripTypeContract {
			continue
		}
		if t.ContractID == nil || *t.ContractID != contractID {
			continue
		}
		if start != nil && t.TripDate.Before(*start) {
			continue
		}
		if end != nil && t.TripDate.After(endOfDay(*end)) {
			continue
		}
		matched = append(matched, *t)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TripDate.Before(matched[j].TripDate)
	})
	return matched, nil
}
