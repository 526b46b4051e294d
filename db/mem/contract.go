package mem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"yathra/billing"
	dbt "yathra/db/db"
)

func (s *inMemoryStore) CreateContract(c *dbt.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	contractCopy := *c
	s.contracts[c.ID] = &contractCopy
	return nil
}

// matchesContractFilter applies the status windows derived from the
// classifier horizon plus the plain field filters.
func matchesContractFilter(c *dbt.Contract, f dbt.ContractFilter) bool {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	if f.ActiveOnly && !c.ContractEndDate.After(now) {
		return false
	}
	if f.VehicleID != nil && c.VehicleID != *f.VehicleID {
		return false
	}
	if f.Status != dbt.ContractStatusAny {
		if string(billing.ClassifyContractStatus(c.ContractEndDate, now)) != string(f.Status) {
			return false
		}
	}
	return true
}

func (s *inMemoryStore) ListContracts(tenant uuid.UUID, f dbt.ContractFilter, page, limit int) ([]dbt.Contract, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]dbt.Contract, 0)
	for _, c := range s.contracts {
		if c.UserID != tenant {
			continue
		}
		if matchesContractFilter(c, f) {
			matched = append(matched, *c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start, end := paginate(len(matched), page, limit)
	return matched[start:end], total, nil
}

func (s *inMemoryStore) GetContract(tenant, id uuid.UUID) (*dbt.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok || c.UserID != tenant {
		return nil, fmt.Errorf("contract %s: %w", id, dbt.ErrNotFound)
	}
	contractCopy := *c
	return &contractCopy, nil
}

func (s *inMemoryStore) UpdateContract(tenant uuid.UUID, c *dbt.Contract) (*dbt.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.contracts[c.ID]
	if !ok || existing.UserID != tenant {
		return nil, fmt.Errorf("contract %s: %w", c.ID, dbt.ErrNotFound)
	}

	updated := *c
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	s.contracts[c.ID] = &updated

	contractCopy := updated
	return &contractCopy, nil
}

func (s *inMemoryStore) DeleteContract(tenant, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contracts[id]
	if !ok || c.UserID != tenant {
		return fmt.Errorf("contract %s: %w", id, dbt.ErrNotFound)
	}
	delete(s.contracts, id)

	// trips stay behind as unlinked history, same as the FK's SET NULL
	for _, t := range s.trips {
		if t.ContractID != nil && *t.ContractID == id {
			t.ContractID = nil
		}
	}
	return nil
}

func (s *inMemoryStore) DataLoaderGetContractRefs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*dbt.ContractRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs := make(map[uuid.UUID]*dbt.ContractRef, len(ids))
	for _, id := range ids {
		if c, ok := s.contracts[id]; ok {
			refs[id] = &dbt.ContractRef{
				ID:              c.ID,
				ContractName:    c.ContractName,
				Rate:            c.Rate,
				AverageDistance: c.AverageDistance,
			}
		}
	}
	return refs, nil
}
