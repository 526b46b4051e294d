package pg

import (
	"time"

	"github.com/google/uuid"

	dbt "yathra/db/db"
)

type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:255;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	Phone        string    `gorm:"size:32"`
	PasswordHash string    `gorm:"size:255"`
	GoogleID     *string   `gorm:"size:255;uniqueIndex"`
	Avatar       string    `gorm:"size:512"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return "users"
}

type VehicleModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Model           string    `gorm:"size:255;not null"`
	Manufacturer    string    `gorm:"size:255;not null"`
	VehicleNumber   string    `gorm:"size:32;not null;uniqueIndex"`
	InsuranceExpiry time.Time `gorm:"not null"`
	TaxDate         time.Time `gorm:"not null"`
	TestDate        time.Time `gorm:"not null"`
	PollutionDate   time.Time `gorm:"not null"`
	FixedRateFor5Km float64   `gorm:"column:fixed_rate_for5_km;type:numeric(10,2);not null"`
	PerKmRate       float64   `gorm:"type:numeric(10,2);not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VehicleModel) TableName() string {
	return "vehicles"
}

type DriverModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"size:255;not null"`
	Phone  string    `gorm:"size:32;not null"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DriverModel) TableName() string {
	return "drivers"
}

type ContractModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	ContractName    string    `gorm:"size:255;not null"`
	Rate            float64   `gorm:"type:numeric(10,2);not null"`
	VehicleID       uuid.UUID `gorm:"type:uuid;not null;index"`
	AverageDistance float64   `gorm:"type:numeric(10,2);not null"`
	ContractEndDate time.Time `gorm:"not null;index"`
	ContactPhone    string    `gorm:"size:32"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ContractModel) TableName() string {
	return "contracts"
}

type TripModel struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	TripType             string     `gorm:"size:16;not null;index"`
	ContractID           *uuid.UUID `gorm:"type:uuid;index"`
	VehicleID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClientName           string     `gorm:"size:255;not null"`
	ClientMobile         string     `gorm:"size:32"`
	DriverName           string     `gorm:"size:255;not null"`
	DriverSalary         float64    `gorm:"type:numeric(10,2);not null"`
	DriverSalaryPaid     bool       `gorm:"not null;default:false"`
	IsDriverSalaryManual bool       `gorm:"not null;default:false"`
	TripRate             float64    `gorm:"type:numeric(10,2);not null"`
	OwnerTakeHome        float64    `gorm:"type:numeric(10,2);not null"`
	StartKm              *float64   `gorm:"type:numeric(10,2)"`
	EndKm                *float64   `gorm:"type:numeric(10,2)"`
	Distance             *float64   `gorm:"type:numeric(10,2)"`
	FixedRateUsed        *float64   `gorm:"type:numeric(10,2)"`
	PerKmRateUsed        *float64   `gorm:"type:numeric(10,2)"`
	AdditionalKm         *float64   `gorm:"type:numeric(10,2)"`
	TripDate             time.Time  `gorm:"not null;index"`
	Notes                string     `gorm:"type:text"`
	// meta data
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TripModel) TableName() string {
	return "trips"
}

func vehicleToEntity(m *VehicleModel) *dbt.Vehicle {
	return &dbt.Vehicle{
		ID:              m.ID,
		UserID:          m.UserID,
		Model:           m.Model,
		Manufacturer:    m.Manufacturer,
		VehicleNumber:   m.VehicleNumber,
		InsuranceExpiry: m.InsuranceExpiry,
		TaxDate:         m.TaxDate,
		TestDate:        m.TestDate,
		PollutionDate:   m.PollutionDate,
		FixedRateFor5Km: m.FixedRateFor5Km,
		PerKmRate:       m.PerKmRate,
		CreatedAt:       m.CreatedAt,
	}
}

func vehicleToModel(v *dbt.Vehicle) *VehicleModel {
	return &VehicleModel{
		ID:              v.ID,
		UserID:          v.UserID,
		Model:           v.Model,
		Manufacturer:    v.Manufacturer,
		VehicleNumber:   v.VehicleNumber,
		InsuranceExpiry: v.InsuranceExpiry,
		TaxDate:         v.TaxDate,
		TestDate:        v.TestDate,
		PollutionDate:   v.PollutionDate,
		FixedRateFor5Km: v.FixedRateFor5Km,
		PerKmRate:       v.PerKmRate,
	}
}

func contractToEntity(m *ContractModel) *dbt.Contract {
	return &dbt.Contract{
		ID:              m.ID,
		UserID:          m.UserID,
		ContractName:    m.ContractName,
		Rate:            m.Rate,
		VehicleID:       m.VehicleID,
		AverageDistance: m.AverageDistance,
		ContractEndDate: m.ContractEndDate,
		ContactPhone:    m.ContactPhone,
		CreatedAt:       m.CreatedAt,
	}
}

func contractToModel(c *dbt.Contract) *ContractModel {
	return &ContractModel{
		ID:              c.ID,
		UserID:          c.UserID,
		ContractName:    c.ContractName,
		Rate:            c.Rate,
		VehicleID:       c.VehicleID,
		AverageDistance: c.AverageDistance,
		ContractEndDate: c.ContractEndDate,
		ContactPhone:    c.ContactPhone,
	}
}

func tripToEntity(m *TripModel) *dbt.Trip {
	return &dbt.Trip{
		ID:                   m.ID,
		UserID:               m.UserID,
		TripType:             dbt.TripType(m.TripType),
		ContractID:           m.ContractID,
		VehicleID:            m.VehicleID,
		ClientName:           m.ClientName,
		ClientMobile:         m.ClientMobile,
		DriverName:           m.DriverName,
		DriverSalary:         m.DriverSalary,
		DriverSalaryPaid:     m.DriverSalaryPaid,
		IsDriverSalaryManual: m.IsDriverSalaryManual,
		TripRate:             m.TripRate,
		OwnerTakeHome:        m.OwnerTakeHome,
		StartKm:              m.StartKm,
		EndKm:                m.EndKm,
		Distance:             m.Distance,
		FixedRateUsed:        m.FixedRateUsed,
		PerKmRateUsed:        m.PerKmRateUsed,
		AdditionalKm:         m.AdditionalKm,
		TripDate:             m.TripDate,
		Notes:                m.Notes,
		CreatedAt:            m.CreatedAt,
	}
}

func tripToModel(t *dbt.Trip) *TripModel {
	return &TripModel{
		ID:                   t.ID,
		UserID:               t.UserID,
		TripType:             string(t.TripType),
		ContractID:           t.ContractID,
		VehicleID:            t.VehicleID,
		ClientName:           t.ClientName,
		ClientMobile:         t.ClientMobile,
		DriverName:           t.DriverName,
		DriverSalary:         t.DriverSalary,
		DriverSalaryPaid:     t.DriverSalaryPaid,
		IsDriverSalaryManual: t.IsDriverSalaryManual,
		TripRate:             t.TripRate,
		OwnerTakeHome:        t.OwnerTakeHome,
		StartKm:              t.StartKm,
		EndKm:                t.EndKm,
		Distance:             t.Distance,
		FixedRateUsed:        t.FixedRateUsed,
		PerKmRateUsed:        t.PerKmRateUsed,
		AdditionalKm:         t.AdditionalKm,
		TripDate:             t.TripDate,
		Notes:                t.Notes,
	}
}
