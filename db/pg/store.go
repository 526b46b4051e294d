package pg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbt "yathra/db/db"
)

// GORMStore is a GORM-based PostgreSQL implementation of dbt.Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates and returns a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) dbt.Store {
	return &GORMStore{db: db}
}

// wrapWriteError maps constraint violations onto the store's typed errors.
func wrapWriteError(what string, err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return fmt.Errorf("%s: %w", what, dbt.ErrDuplicate)
	}
	return fmt.Errorf("failed to write %s: %w", what, err)
}

func (s *GORMStore) CreateUser(u *dbt.User) error {
	model := UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        strings.ToLower(u.Email),
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		Avatar:       u.Avatar,
	}
	if u.GoogleID != "" {
		gid := u.GoogleID
		model.GoogleID = &gid
	}
	return wrapWriteError("user", s.db.Create(&model).Error)
}

func userToEntity(m *UserModel) *dbt.User {
	u := &dbt.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Avatar:       m.Avatar,
	}
	if m.GoogleID != nil {
		u.GoogleID = *m.GoogleID
	}
	return u
}

func (s *GORMStore) GetUserByID(id uuid.UUID) (*dbt.User, error) {
	var model UserModel
	result := s.db.First(&model, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, dbt.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, result.Error)
	}
	return userToEntity(&model), nil
}

func (s *GORMStore) GetUserByEmailOrPhone(emailOrPhone string) (*dbt.User, error) {
	var model UserModel
	result := s.db.Where("email = ? OR (phone <> '' AND phone = ?)", strings.ToLower(emailOrPhone), emailOrPhone).First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", emailOrPhone, dbt.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get user by email or phone: %w", result.Error)
	}
	return userToEntity(&model), nil
}

func (s *GORMStore) GetUserByGoogleID(googleID string) (*dbt.User, error) {
	var model UserModel
	result := s.db.Where("google_id = ?", googleID).First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user google id: %w", dbt.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get user by google id: %w", result.Error)
	}
	return userToEntity(&model), nil
}

func (s *GORMStore) UpdateUserPassword(id uuid.UUID, passwordHash string) error {
	result := s.db.Model(&UserModel{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update user password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func (s *GORMStore) DeleteUser(id uuid.UUID) error {
	result := s.db.Delete(&UserModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}
