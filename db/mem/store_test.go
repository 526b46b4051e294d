package mem_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbt "yathra/db/db"
	"yathra/db/mem"
)

func setupTest() dbt.Store {
	return mem.NewInMemoryStore()
}

func newVehicle(tenant uuid.UUID, number string) *dbt.Vehicle {
	return &dbt.Vehicle{
		ID:              uuid.New(),
		UserID:          tenant,
		Model:           "Innova",
		Manufacturer:    "Toyota",
		VehicleNumber:   number,
		InsuranceExpiry: time.Now().AddDate(1, 0, 0),
		TaxDate:         time.Now().AddDate(0, 6, 0),
		TestDate:        time.Now().AddDate(0, 6, 0),
		PollutionDate:   time.Now().AddDate(0, 3, 0),
		FixedRateFor5Km: 500,
		PerKmRate:       20,
	}
}

func TestVehicleCRUD(t *testing.T) {
	store := setupTest()
	tenant := uuid.New()

	v := newVehicle(tenant, "KL-07-1234")
	require.NoError(t, store.CreateVehicle(v))

	// duplicate vehicle number is rejected system-wide
	dup := newVehicle(uuid.New(), "KL-07-1234")
	err := store.CreateVehicle(dup)
	assert.Error(t, err)
	assert.ErrorIs(t, err, dbt.ErrDuplicate)

	got, err := store.GetVehicle(tenant, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.VehicleNumber, got.VehicleNumber)

	got.Model = "Innova Crysta"
	updated, err := store.UpdateVehicle(tenant, got)
	require.NoError(t, err)
	assert.Equal(t, "Innova Crysta", updated.Model)

	require.NoError(t, store.DeleteVehicle(tenant, v.ID))
	_, err = store.GetVehicle(tenant, v.ID)
	assert.ErrorIs(t, err, dbt.ErrNotFound)
}

// A record owned by tenant B must be invisible to tenant A: reads, updates
// and deletes all come back as not-found, and A's listings never include it.
func TestTenantIsolation(t *testing.T) {
	store := setupTest()
	tenantA := uuid.New()
	tenantB := uuid.New()

	v := newVehicle(tenantB, "KL-01-9999")
	require.NoError(t, store.CreateVehicle(v))

	_, err := store.GetVehicle(tenantA, v.ID)
	assert.ErrorIs(t, err, dbt.ErrNotFound)

	_, err = store.UpdateVehicle(tenantA, v)
	assert.ErrorIs(t, err, dbt.ErrNotFound)

	err = store.DeleteVehicle(tenantA, v.ID)
	assert.ErrorIs(t, err, dbt.ErrNotFound)

	vehicles, err := store.ListVehicles(tenantA)
	require.NoError(t, err)
	assert.Empty(t, vehicles)

	// B still owns the record untouched
	got, err := store.GetVehicle(tenantB, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "KL-01-9999", got.VehicleNumber)

	trip := &dbt.Trip{
		ID:         uuid.New(),
		UserID:     tenantB,
		TripType:   dbt.TripTypeSavari,
		VehicleID:  v.ID,
		ClientName: "Client",
		DriverName: "Driver",
		TripDate:   time.Now(),
	}
	require.NoError(t, store.CreateTrip(trip))

	trips, total, err := store.ListTrips(tenantA, dbt.TripFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, trips)
	assert.Zero(t, total)
}

func TestListContractsStatusFilter(t *testing.T) {
	store := setupTest()
	tenant := uuid.New()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	vehicleID := uuid.New()

	mkContract := func(name string, end time.Time) {
		require.NoError(t, store.CreateContract(&dbt.Contract{
			ID:              uuid.New(),
			UserID:          tenant,
			ContractName:    name,
			Rate:            1000,
			VehicleID:       vehicleID,
			AverageDistance: 30,
			ContractEndDate: end,
		}))
	}
	mkContract("expired", now.AddDate(0, -1, 0))
	mkContract("expiring", now.Add(10*24*time.Hour))
	mkContract("active", now.AddDate(1, 0, 0))

	cases := []struct {
		status dbt.ContractStatusFilter
		want   string
	}{
		{dbt.ContractStatusExpired, "expired"},
		{dbt.ContractStatusExpiring, "expiring"},
		{dbt.ContractStatusActive, "active"},
	}
	for _, c := range cases {
		contracts, total, err := store.ListContracts(tenant, dbt.ContractFilter{Status: c.status, Now: now}, 1, 10)
		require.NoError(t, err)
		require.Equal(t, int64(1), total, "status %s", c.status)
		assert.Equal(t, c.want, contracts[0].ContractName)
	}

	// ActiveOnly keeps everything not yet ended
	contracts, total, err := store.ListContracts(tenant, dbt.ContractFilter{ActiveOnly: true, Now: now}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, contracts, 2)
}

func TestListTripsFilterAndPagination(t *testing.T) {
	store := setupTest()
	tenant := uuid.New()
	vehicleID := uuid.New()
	contractID := uuid.New()

	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tt := dbt.TripTypeSavari
		var cid *uuid.UUID
		if i%2 == 0 {
			tt = dbt.TripTypeContract
			cid = &contractID
		}
		require.NoError(t, store.CreateTrip(&dbt.Trip{
			ID:         uuid.New(),
			UserID:     tenant,
			TripType:   tt,
			ContractID: cid,
			VehicleID:  vehicleID,
			ClientName: "Client",
			DriverName: "Driver",
			TripRate:   float64(100 * (i + 1)),
			TripDate:   base.AddDate(0, 0, i),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	savari := dbt.TripTypeSavari
	trips, total, err := store.ListTrips(tenant, dbt.TripFilter{TripType: &savari}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, trips, 2)

	// newest first, two per page
	trips, total, err = store.ListTrips(tenant, dbt.TripFilter{}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, trips, 2)
	assert.True(t, trips[0].CreatedAt.After(trips[1].CreatedAt))

	trips, _, err = store.ListTrips(tenant, dbt.TripFilter{}, 3, 2)
	require.NoError(t, err)
	assert.Len(t, trips, 1)

	// date range is inclusive of the end date
	start := base.AddDate(0, 0, 1)
	end := base.AddDate(0, 0, 3)
	trips, total, err = store.ListTrips(tenant, dbt.TripFilter{StartDate: &start, EndDate: &end}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, trips, 3)
}

func TestListContractTripsOrdering(t *testing.T) {
	store := setupTest()
	tenant := uuid.New()
	contractID := uuid.New()
	vehicleID := uuid.New()

	dates := []time.Time{
		time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		cid := contractID
		require.NoError(t, store.CreateTrip(&dbt.Trip{
			ID:         uuid.New(),
			UserID:     tenant,
			TripType:   dbt.TripTypeContract,
			ContractID: &cid,
			VehicleID:  vehicleID,
			ClientName: "Client",
			DriverName: "Driver",
			TripDate:   d,
		}))
	}
	// savari trip against the same vehicle must not leak into the report
	require.NoError(t, store.CreateTrip(&dbt.Trip{
		ID:         uuid.New(),
		UserID:     tenant,
		TripType:   dbt.TripTypeSavari,
		VehicleID:  vehicleID,
		ClientName: "Client",
		DriverName: "Driver",
		TripDate:   dates[0],
	}))

	trips, err := store.ListContractTrips(tenant, contractID, nil, nil)
	require.NoError(t, err)
	require.Len(t, trips, 3)
	for i := 1; i < len(trips); i++ {
		assert.False(t, trips[i].TripDate.Before(trips[i-1].TripDate), "trips must be in ascending date order")
	}
}

// Deleting a contract unlinks its trips, matching the SET NULL foreign key
// in postgres: trips stay behind as history without a contract reference.
func TestDeleteContractUnlinksTrips(t *testing.T) {
	store := setupTest()
	tenant := uuid.New()
	vehicleID := uuid.New()

	contract := &dbt.Contract{
		ID:              uuid.New(),
		UserID:          tenant,
		ContractName:    "School Run",
		Rate:            1500,
		VehicleID:       vehicleID,
		AverageDistance: 22,
		ContractEndDate: time.Now().AddDate(1, 0, 0),
	}
	require.NoError(t, store.CreateContract(contract))

	cid := contract.ID
	trip := &dbt.Trip{
		ID:         uuid.New(),
		UserID:     tenant,
		TripType:   dbt.TripTypeContract,
		ContractID: &cid,
		VehicleID:  vehicleID,
		ClientName: "Client",
		DriverName: "Driver",
		TripDate:   time.Now(),
	}
	require.NoError(t, store.CreateTrip(trip))

	require.NoError(t, store.DeleteContract(tenant, contract.ID))

	got, err := store.GetTrip(tenant, trip.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ContractID, "deleted contract must leave its trips unlinked")
}

func TestRefHydration(t *testing.T) {
	store := setupTest()
	tenant := uuid.New()

	v := newVehicle(tenant, "KL-11-0001")
	require.NoError(t, store.CreateVehicle(v))

	contract := &dbt.Contract{
		ID:              uuid.New(),
		UserID:          tenant,
		ContractName:    "School Run",
		Rate:            1500,
		VehicleID:       v.ID,
		AverageDistance: 22,
		ContractEndDate: time.Now().AddDate(1, 0, 0),
	}
	require.NoError(t, store.CreateContract(contract))

	cid := contract.ID
	trip := &dbt.Trip{
		ID:         uuid.New(),
		UserID:     tenant,
		TripType:   dbt.TripTypeContract,
		ContractID: &cid,
		VehicleID:  v.ID,
		ClientName: "Client",
		DriverName: "Driver",
		TripDate:   time.Now(),
	}
	require.NoError(t, store.CreateTrip(trip))

	loader := dbt.NewRefLoader(store)
	trips, _, err := store.ListTrips(tenant, dbt.TripFilter{}, 1, 10)
	require.NoError(t, err)
	require.NoError(t, loader.HydrateTrips(context.Background(), trips))

	require.Len(t, trips, 1)
	require.NotNil(t, trips[0].Vehicle)
	assert.Equal(t, "KL-11-0001", trips[0].Vehicle.VehicleNumber)
	require.NotNil(t, trips[0].Contract)
	assert.Equal(t, "School Run", trips[0].Contract.ContractName)
}

func TestUserLookup(t *testing.T) {
	store := setupTest()

	u := &dbt.User{
		ID:           uuid.New(),
		Name:         "Asha",
		Email:        "asha@example.com",
		Phone:        "9400000000",
		PasswordHash: "hash",
	}
	require.NoError(t, store.CreateUser(u))

	err := store.CreateUser(&dbt.User{ID: uuid.New(), Email: "ASHA@example.com"})
	assert.ErrorIs(t, err, dbt.ErrDuplicate)

	byEmail, err := store.GetUserByEmailOrPhone("asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byPhone, err := store.GetUserByEmailOrPhone("9400000000")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byPhone.ID)

	_, err = store.GetUserByEmailOrPhone("nobody@example.com")
	assert.True(t, errors.Is(err, dbt.ErrNotFound))
}
