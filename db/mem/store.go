package mem

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	dbt "yathra/db/db"
)

// inMemoryStore is an in-memory implementation of dbt.Store. It backs the
// handler tests and local development; maps are guarded by one RWMutex and
// values are copied on the way in and out.
type inMemoryStore struct {
	users     map[uuid.UUID]*dbt.User
	vehicles  map[uuid.UUID]*dbt.Vehicle
	drivers   map[uuid.UUID]*dbt.Driver
	contracts map[uuid.UUID]*dbt.Contract
	trips     map[uuid.UUID]*dbt.Trip

	mu sync.RWMutex
}

// NewInMemoryStore creates an empty in-memory record store.
func NewInMemoryStore() dbt.Store {
	return &inMemoryStore{
		users:     make(map[uuid.UUID]*dbt.User),
		vehicles:  make(map[uuid.UUID]*dbt.Vehicle),
		drivers:   make(map[uuid.UUID]*dbt.Driver),
		contracts: make(map[uuid.UUID]*dbt.Contract),
		trips:     make(map[uuid.UUID]*dbt.Trip),
	}
}

func (s *inMemoryStore) CreateUser(u *dbt.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("user email %s: %w", u.Email, dbt.ErrDuplicate)
		}
		if u.GoogleID != "" && existing.GoogleID == u.GoogleID {
			return fmt.Errorf("user google id: %w", dbt.ErrDuplicate)
		}
	}

	userCopy := *u
	s.users[u.ID] = &userCopy
	return nil
}

func (s *inMemoryStore) GetUserByID(id uuid.UUID) (*dbt.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, dbt.ErrNotFound)
	}
	userCopy := *u
	return &userCopy, nil
}

func (s *inMemoryStore) GetUserByEmailOrPhone(emailOrPhone string) (*dbt.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, emailOrPhone) || (u.Phone != "" && u.Phone == emailOrPhone) {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", emailOrPhone, dbt.ErrNotFound)
}

func (s *inMemoryStore) GetUserByGoogleID(googleID string) (*dbt.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, fmt.Errorf("user google id %s: %w", googleID, dbt.ErrNotFound)
}

func (s *inMemoryStore) UpdateUserPassword(id uuid.UUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, dbt.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *inMemoryStore) DeleteUser(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, dbt.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

// endOfDay pushes a range bound to the last instant of its calendar day so
// date-range filters are inclusive of the end date.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// paginate clamps a page window onto n items and returns the slice bounds.
func paginate(n, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start > n {
		return n, n
	}
	end := start + limit
	if end > n {
		end = n
	}
	return start, end
}
