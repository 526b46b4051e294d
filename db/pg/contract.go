package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yathra/billing"
	dbt "yathra/db/db"
)

func (s *GORMStore) CreateContract(c *dbt.Contract) error {
	return wrapWriteError("contract", s.db.Create(contractToModel(c)).Error)
}

// applyContractFilter translates the status buckets into end-date windows
// using the classifier's horizon, mirroring billing.ClassifyContractStatus.
func applyContractFilter(q *gorm.DB, f dbt.ContractFilter) *gorm.DB {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	if f.ActiveOnly {
		q = q.Where("contract_end_date > ?", now)
	}
	if f.VehicleID != nil {
		q = q.Where("vehicle_id = ?", *f.VehicleID)
	}
	horizon := now.Add(billing.ExpiryHorizon)
	switch f.Status {
	case dbt.ContractStatusExpired:
		q = q.Where("contract_end_date < ?", now)
	case dbt.ContractStatusExpiring:
		q = q.Where("contract_end_date >= ? AND contract_end_date <= ?", now, horizon)
	case dbt.ContractStatusActive:
		q = q.Where("contract_end_date > ?", horizon)
	}
	return q
}

func (s *GORMStore) ListContracts(tenant uuid.UUID, f dbt.ContractFilter, page, limit int) ([]dbt.Contract, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	base := applyContractFilter(s.db.Model(&ContractModel{}).Where("user_id = ?", tenant), f)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	var models []ContractModel
	result := base.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list contracts: %w", result.Error)
	}

	contracts := make([]dbt.Contract, 0, len(models))
	for i := range models {
		contracts = append(contracts, *contractToEntity(&models[i]))
	}
	return contracts, total, nil
}

func (s *GORMStore) GetContract(tenant, id uuid.UUID) (*dbt.Contract, error) {
	var model ContractModel
	result := s.db.Where("id = ? AND user_id = ?", id, tenant).First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("contract %s: %w", id, dbt.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get contract %s: %w", id, result.Error)
	}
	return contractToEntity(&model), nil
}

func (s *GORMStore) UpdateContract(tenant uuid.UUID, c *dbt.Contract) (*dbt.Contract, error) {
	result := s.db.Model(&ContractModel{}).
		Where("id = ? AND user_id = ?", c.ID, tenant).
		Select("ContractName", "Rate", "VehicleID", "AverageDistance", "ContractEndDate", "ContactPhone").
		Updates(contractToModel(c))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update contract %s: %w", c.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("contract %s: %w", c.ID, dbt.ErrNotFound)
	}
	return s.GetContract(tenant, c.ID)
}

func (s *GORMStore) DeleteContract(tenant, id uuid.UUID) error {
	result := s.db.Delete(&ContractModel{}, "id = ? AND user_id = ?", id, tenant)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contract %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contract %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func (s *GORMStore) DataLoaderGetContractRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*dbt.ContractRef, error) {
	var models []ContractModel
	result := s.db.WithContext(ctx).Select("id", "contract_name", "rate", "average_distance").Where("id IN ?", ids).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to batch load contract refs: %w", result.Error)
	}

	refs := make(map[uuid.UUID]*dbt.ContractRef, len(models))
	for i := range models {
		m := &models[i]
		refs[m.ID] = &dbt.ContractRef{
			ID:              m.ID,
			ContractName:    m.ContractName,
			Rate:            m.Rate,
			AverageDistance: m.AverageDistance,
		}
	}
	return refs, nil
}
