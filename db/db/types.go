package db

import (
	"time"

	"github.com/google/uuid"
)

// User is an account owning a tenant's records. PasswordHash is empty for
// accounts created through Google sign-in.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	Avatar       string    `json:"avatar,omitempty"`
}

// Vehicle carries the compliance dates shown on the dashboard and the two
// pricing tiers the fare calculator works from.
type Vehicle struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	Model           string    `json:"model"`
	Manufacturer    string    `json:"manufacturer"`
	VehicleNumber   string    `json:"vehicleNumber"`
	InsuranceExpiry time.Time `json:"insuranceExpiry"`
	TaxDate         time.Time `json:"taxDate"`
	TestDate        time.Time `json:"testDate"`
	PollutionDate   time.Time `json:"pollutionDate"`
	FixedRateFor5Km float64   `json:"fixedRateFor5Km"`
	PerKmRate       float64   `json:"perKmRate"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Driver struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// Contract is a standing agreement billed at a flat rate per trip.
type Contract struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"userId"`
	ContractName    string      `json:"contractName"`
	Rate            float64     `json:"rate"`
	VehicleID       uuid.UUID   `json:"vehicleId"`
	AverageDistance float64     `json:"averageDistance"`
	ContractEndDate time.Time   `json:"contractEndDate"`
	ContactPhone    string      `json:"contactPhone,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	Vehicle         *VehicleRef `json:"vehicle,omitempty"`
}

// TripType tags the two trip variants: contract trips billed against a
// standing Contract, savari trips billed by distance.
type TripType string

const (
	TripTypeContract TripType = "contract"
	TripTypeSavari   TripType = "savari"
)

// Trip is a single journey. ContractID is set iff TripType is contract;
// StartKm/EndKm/Distance are set iff TripType is savari. Distance is always
// recomputed from the odometer readings at write time when both are present.
type Trip struct {
	ID                  uuid.UUID    `json:"id"`
	UserID              uuid.UUID    `json:"userId"`
	TripType            TripType     `json:"tripType"`
	ContractID          *uuid.UUID   `json:"contractId,omitempty"`
	VehicleID           uuid.UUID    `json:"vehicleId"`
	ClientName          string       `json:"clientName"`
	ClientMobile        string       `json:"clientMobile,omitempty"`
	DriverName          string       `json:"driverName"`
	DriverSalary        float64      `json:"driverSalary"`
	DriverSalaryPaid    bool         `json:"driverSalaryPaid"`
	IsDriverSalaryManual bool        `json:"isDriverSalaryManual"`
	TripRate            float64      `json:"tripRate"`
	OwnerTakeHome       float64      `json:"ownerTakeHome"`
	StartKm             *float64     `json:"startKm,omitempty"`
	EndKm               *float64     `json:"endKm,omitempty"`
	Distance            *float64     `json:"distance,omitempty"`
	FixedRateUsed       *float64     `json:"fixedRateUsed,omitempty"`
	PerKmRateUsed       *float64     `json:"perKmRateUsed,omitempty"`
	AdditionalKm        *float64     `json:"additionalKm,omitempty"`
	TripDate            time.Time    `json:"tripDate"`
	Notes               string       `json:"notes,omitempty"`
	CreatedAt           time.Time    `json:"createdAt"`
	Vehicle             *VehicleRef  `json:"vehicle,omitempty"`
	Contract            *ContractRef `json:"contract,omitempty"`
}

// VehicleRef is the read-side slice of a vehicle embedded in list responses.
type VehicleRef struct {
	ID            uuid.UUID `json:"id"`
	VehicleNumber string    `json:"vehicleNumber"`
	Model         string    `json:"model"`
}

// ContractRef is the read-side slice of a contract embedded in trip responses.
type ContractRef struct {
	ID              uuid.UUID `json:"id"`
	ContractName    string    `json:"contractName"`
	Rate            float64   `json:"rate"`
	AverageDistance float64   `json:"averageDistance"`
}

// TripFilter narrows a tenant's trip listing. Nil fields are not applied.
// EndDate is extended to the end of its calendar day before matching.
type TripFilter struct {
	TripType   *TripType
	VehicleID  *uuid.UUID
	ContractID *uuid.UUID
	SalaryPaid *bool
	StartDate  *time.Time
	EndDate    *time.Time
}

// ContractStatusFilter selects contracts by billing urgency. The date
// windows derive from the classifier's 30-day horizon.
type ContractStatusFilter string

const (
	ContractStatusAny      ContractStatusFilter = ""
	ContractStatusActive   ContractStatusFilter = "active"
	ContractStatusExpiring ContractStatusFilter = "expiring"
	ContractStatusExpired  ContractStatusFilter = "expired"
)

// ContractFilter narrows a tenant's contract listing. Now anchors the
// status windows so listings are reproducible in tests.
type ContractFilter struct {
	ActiveOnly bool
	VehicleID  *uuid.UUID
	Status     ContractStatusFilter
	Now        time.Time
}
