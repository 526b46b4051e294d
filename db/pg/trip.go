package pg

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbt "yathra/db/db"
)

func (s *GORMStore) CreateTrip(t *dbt.Trip) error {
	return wrapWriteError("trip", s.db.Create(tripToModel(t)).Error)
}

// endOfDay pushes a range bound to the last instant of its calendar day so
// date-range filters are inclusive of the end date.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func applyTripFilter(q *gorm.DB, f dbt.TripFilter) *gorm.DB {
	if f.TripType != nil {
		q = q.Where("trip_type = ?", string(*f.TripType))
	}
	if f.VehicleID != nil {
		q = q.Where("vehicle_id = ?", *f.VehicleID)
	}
	if f.ContractID != nil {
		q = q.Where("contract_id = ?", *f.ContractID)
	}
	if f.SalaryPaid != nil {
		q = q.Where("driver_salary_paid = ?", *f.SalaryPaid)
	}
	if f.StartDate != nil {
		q = q.Where("trip_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("trip_date <= ?", endOfDay(*f.EndDate))
	}
	return q
}

func (s *GORMStore) ListTrips(tenant uuid.UUID, f dbt.TripFilter, page, limit int) ([]dbt.Trip, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	base := applyTripFilter(s.db.Model(&TripModel{}).Where("user_id = ?", tenant), f)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	var models []TripModel
	result := base.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&models)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list trips: %w", result.Error)
	}

	trips := make([]dbt.Trip, 0, len(models))
	for i := range models {
		trips = append(trips, *tripToEntity(&models[i]))
	}
	return trips, total, nil
}

func (s *GORMStore) GetTrip(tenant, id uuid.UUID) (*dbt.Trip, error) {
	var model TripModel
	result := s.db.Where("id = ? AND user_id = ?", id, tenant).First(&model)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("trip %s: %w", id, dbt.ErrNotFound)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get trip %s: %w", id, result.Error)
	}
	return tripToEntity(&model), nil
}

func (s *GORMStore) UpdateTrip(tenant uuid.UUID, t *dbt.Trip) (*dbt.Trip, error) {
	result := s.db.Model(&TripModel{}).
		Where("id = ? AND user_id = ?", t.ID, tenant).
		Select("TripType", "ContractID", "VehicleID", "ClientName", "ClientMobile", "DriverName",
			"DriverSalary", "DriverSalaryPaid", "IsDriverSalaryManual", "TripRate", "OwnerTakeHome",
			"StartKm", "EndKm", "Distance", "FixedRateUsed", "PerKmRateUsed", "AdditionalKm",
			"TripDate", "Notes").
		Updates(tripToModel(t))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update trip %s: %w", t.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("trip %s: %w", t.ID, dbt.ErrNotFound)
	}
	return s.GetTrip(tenant, t.ID)
}

func (s *GORMStore) DeleteTrip(tenant, id uuid.UUID) error {
	result := s.db.Delete(&TripModel{}, "id = ? AND user_id = ?", id, tenant)
	if result.Error != nil {
		return fmt.Errorf("failed to delete trip %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("trip %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func (s *GORMStore) ListContractTrips(tenant, contractID uuid.UUID, start, end *time.Time) ([]dbt.Trip, error) {
	q := s.db.Where("user_id = ? AND trip_type = ? AND contract_id = ?", tenant, string(dbt.TripTypeContract), contractID)
	if start != nil {
		q = q.Where("trip_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("trip_date <= ?", endOfDay(*end))
	}

	var models []TripModel
	result := q.Order("trip_date ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list contract trips for %s: %w", contractID, result.Error)
	}

	trips := make([]dbt.Trip, 0, len(models))
	for i := range models {
		trips = append(trips, *tripToEntity(&models[i]))
	}
	return trips, nil
}
