package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbt "yathra/db/db"
)

func (s *GORMStore) CreateVehicle(v *dbt.Vehicle) error {
	return wrapWriteError("vehicle", s.db.Create(vehicleToModel(v)).Error)
}

func (s *GORMStore) ListVehicles(tenant uuid.UUID) ([]dbt.Vehicle, error) {
	var models []VehicleModel
	result := s.db.Where("user_id = ?", tenant).Order("created_at DESC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", result.Error)
	}

	vehicles := make([]dbt.Vehicle, 0, len(models))
	for i := range models {
		vehicles = append(vehicles, *vehicleToEntity(&models[i]))
	}
	return vehicles, nil
}

func (s *GORMStore) GetVehicle(tenant, id uuid.UUID) (*dbt.Vehicle, error) {
	var model VehicleModel
	result := s.db.Where("id = ? AND user_id = ?", id, tenant).First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get vehicle %s: %w", id, result.Error)
	}
	return vehicleToEntity(&model), nil
}

func (s *GORMStore) UpdateVehicle(tenant uuid.UUID, v *dbt.Vehicle) (*dbt.Vehicle, error) {
	model := vehicleToModel(v)
	result := s.db.Model(&VehicleModel{}).
		Where("id = ? AND user_id = ?", v.ID, tenant).
		Select("Model", "Manufacturer", "VehicleNumber", "InsuranceExpiry", "TaxDate", "TestDate", "PollutionDate", "FixedRateFor5Km", "PerKmRate").
		Updates(model)
	if result.Error != nil {
		return nil, wrapWriteError("vehicle", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("vehicle %s: %w", v.ID, dbt.ErrNotFound)
	}
	return s.GetVehicle(tenant, v.ID)
}

func (s *GORMStore) DeleteVehicle(tenant, id uuid.UUID) error {
	result := s.db.Delete(&VehicleModel{}, "id = ? AND user_id = ?", id, tenant)
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func (s *GORMStore) DataLoaderGetVehicleRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*dbt.VehicleRef, error) {
	var models []VehicleModel
	result := s.db.WithContext(ctx).Select("id", "vehicle_number", "model").Where("id IN ?", ids).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch load vehicle refs: %w", result.Error)
	}

	refs := make(map[uuid.UUID]*dbt.VehicleRef, len(models))
	for i := range models {
		m := &models[i]
		refs[m.ID] = &dbt.VehicleRef{ID: m.ID, VehicleNumber: m.VehicleNumber, Model: m.Model}
	}
	return refs, nil
}
