package pg

import (
	"fmt"

	"github.com/google/uuid"

	dbt "yathra/db/db"
)

func (s *GORMStore) CreateDriver(d *dbt.Driver) error {
	model := DriverModel{
		ID:     d.ID,
		UserID: d.UserID,
		Name:   d.Name,
		Phone:  d.Phone,
	}
	return wrapWriteError("driver", s.db.Create(&model).Error)
}

func (s *GORMStore) ListDrivers(tenant uuid.UUID) ([]dbt.Driver, error) {
	var models []DriverModel
	result := s.db.Where("user_id = ?", tenant).Order("name ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", result.Error)
	}

	drivers := make([]dbt.Driver, 0, len(models))
	for _, m := range models {
		drivers = append(drivers, dbt.Driver{
			ID:        m.ID,
			UserID:    m.UserID,
			Name:      m.Name,
			Phone:     m.Phone,
			CreatedAt: m.CreatedAt,
		})
	}
	return drivers, nil
}

func (s *GORMStore) UpdateDriver(tenant uuid.UUID, d *dbt.Driver) (*dbt.Driver, error) {
	result := s.db.Model(&DriverModel{}).
		Where("id = ? AND user_id = ?", d.ID, tenant).
		Select("Name", "Phone").
		Updates(DriverModel{Name: d.Name, Phone: d.Phone})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update driver %s: %w", d.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("driver %s: %w", d.ID, dbt.ErrNotFound)
	}

	var model DriverModel
	if err := s.db.First(&model, "id = ?", d.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload driver %s: %w", d.ID, err)
	}
	return &dbt.Driver{ID: model.ID, UserID: model.UserID, Name: model.Name, Phone: model.Phone, CreatedAt: model.CreatedAt}, nil
}

func (s *GORMStore) DeleteDriver(tenant, id uuid.UUID) error {
	result := s.db.Delete(&DriverModel{}, "id = ? AND user_id = ?", id, tenant)
	if result.Error != nil {
		return fmt.Errorf("failed to delete driver %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("driver %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}
