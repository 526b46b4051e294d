package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserDBWrapper interface {
	CreateUser(u *User) error
	GetUserByID(id uuid.UUID) (*User, error)
	// GetUserByEmailOrPhone matches either field, the login form accepts both.
	GetUserByEmailOrPhone(emailOrPhone string) (*User, error)
	GetUserByGoogleID(googleID string) (*User, error)
	UpdateUserPassword(id uuid.UUID, passwordHash string) error
	DeleteUser(id uuid.UUID) error
}

type VehicleDBWrapper interface {
	CreateVehicle(v *Vehicle) error
	// ListVehicles returns every vehicle of the tenant, newest first.
	ListVehicles(tenant uuid.UUID) ([]Vehicle, error)
	GetVehicle(tenant, id uuid.UUID) (*Vehicle, error)
	UpdateVehicle(tenant uuid.UUID, v *Vehicle) (*Vehicle, error)
	DeleteVehicle(tenant, id uuid.UUID) error
	// DataLoaderGetVehicleRefs batch-resolves vehicle references for hydration.
	DataLoaderGetVehicleRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*VehicleRef, error)
}

type DriverDBWrapper interface {
	CreateDriver(d *Driver) error
	// ListDrivers returns every driver of the tenant sorted by name.
	ListDrivers(tenant uuid.UUID) ([]Driver, error)
	UpdateDriver(tenant uuid.UUID, d *Driver) (*Driver, error)
	DeleteDriver(tenant, id uuid.UUID) error
}

type ContractDBWrapper interface {
	CreateContract(c *Contract) error
	// ListContracts returns one page of the tenant's contracts, newest
	// first, plus the unpaginated match count.
	ListContracts(tenant uuid.UUID, f ContractFilter, page, limit int) ([]Contract, int64, error)
	GetContract(tenant, id uuid.UUID) (*Contract, error)
	UpdateContract(tenant uuid.UUID, c *Contract) (*Contract, error)
	DeleteContract(tenant, id uuid.UUID) error
	DataLoaderGetContractRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ContractRef, error)
}

type TripDBWrapper interface {
	CreateTrip(t *Trip) error
	// ListTrips returns one page of the tenant's trips, newest first, plus
	// the unpaginated match count.
	ListTrips(tenant uuid.UUID, f TripFilter, page, limit int) ([]Trip, int64, error)
	GetTrip(tenant, id uuid.UUID) (*Trip, error)
	UpdateTrip(tenant uuid.UUID, t *Trip) (*Trip, error)
	DeleteTrip(tenant, id uuid.UUID) error
	// ListContractTrips returns every contract trip billed against the
	// given contract within the optional inclusive date range, in ascending
	// trip-date order. It feeds the billing report.
	ListContractTrips(tenant, contractID uuid.UUID, start, end *time.Time) ([]Trip, error)
}

// Store is the full record access layer. Every read and mutation of a
// single record is gated on tenant ownership; list reads are always
// tenant-filtered.
type Store interface {
	UserDBWrapper
	VehicleDBWrapper
	DriverDBWrapper
	ContractDBWrapper
	TripDBWrapper
}
