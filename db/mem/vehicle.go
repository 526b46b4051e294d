package mem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	dbt "yathra/db/db"
)

func (s *inMemoryStore) CreateVehicle(v *dbt.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.vehicles {
		if existing.VehicleNumber == v.VehicleNumber {
			return fmt.Errorf("vehicle number %s: %w", v.VehicleNumber, dbt.ErrDuplicate)
		}
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	vehicleCopy := *v
	s.vehicles[v.ID] = &vehicleCopy
	return nil
}

func (s *inMemoryStore) ListVehicles(tenant uuid.UUID) ([]dbt.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vehicles := make([]dbt.Vehicle, 0)
	for _, v := range s.vehicles {
		if v.UserID == tenant {
			vehicles = append(vehicles, *v)
		}
	}
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].CreatedAt.After(vehicles[j].CreatedAt)
	})
	return vehicles, nil
}

func (s *inMemoryStore) GetVehicle(tenant, id uuid.UUID) (*dbt.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vehicles[id]
	if !ok || v.UserID != tenant {
		return nil, fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
	}
	vehicleCopy := *v
	return &vehicleCopy, nil
}

func (s *inMemoryStore) UpdateVehicle(tenant uuid.UUID, v *dbt.Vehicle) (*dbt.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.vehicles[v.ID]
	if !ok || existing.UserID != tenant {
		return nil, fmt.Errorf("vehicle %s: %w", v.ID, dbt.ErrNotFound)
	}

	updated := *v
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	s.vehicles[v.ID] = &updated

	vehicleCopy := updated
	return &vehicleCopy, nil
}

func (s *inMemoryStore) DeleteVehicle(tenant, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[id]
	if !ok || v.UserID != tenant {
		return fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
	}
	delete(s.vehicles, id)
	return nil
}

func (s *inMemoryStore) DataLoaderGetVehicleRefs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*dbt.VehicleRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make(map[uuid.UUID]*dbt.VehicleRef, len(ids))
	for _, id := range ids {
		if v, ok := s.vehicles[id]; ok {
			refs[id] = &dbt.VehicleRef{ID: v.ID, VehicleNumber: v.VehicleNumber, Model: v.Model}
		}
	}
	return refs, nil
}
