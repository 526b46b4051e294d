package mem

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	dbt "yathra/db/db"
)

func (s *inMemoryStore) CreateDriver(d *dbt.Driver) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	driverCopy := *d
	s.drivers[d.ID] = &driverCopy
	return nil
}

func (s *inMemoryStore) ListDrivers(tenant uuid.UUID) ([]dbt.Driver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	drivers := make([]dbt.Driver, 0)
	for _, d := range s.drivers {
		if d.UserID == tenant {
			drivers = append(drivers, *d)
		}
	}
	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].Name < drivers[j].Name
	})
	return drivers, nil
}

func (s *inMemoryStore) UpdateDriver(tenant uuid.UUID, d *dbt.Driver) (*dbt.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.drivers[d.ID]
	if !ok || existing.UserID != tenant {
		return nil, fmt.Errorf("driver %s: %w", d.ID, dbt.ErrNotFound)
	}

	updated := *d
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	s.drivers[d.ID] = &updated

	driverCopy := updated
	return &driverCopy, nil
}

func (s *inMemoryStore) DeleteDriver(tenant, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drivers[id]
	if !ok || d.UserID != tenant {
		return fmt.Errorf("driver %s: %w", id, dbt.ErrNotFound)
	}
	delete(s.drivers, id)
	return nil
}
