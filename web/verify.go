package web

import (
	"fmt"

	"github.com/google/uuid"

	dbt "yathra/db/db"
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, dbt.ErrInvalidInput)...)
}

func verifyVehicle(v *dbt.Vehicle) error {
	if v.Model == "" {
		return invalidf("model is required")
	}
	if v.Manufacturer == "" {
		return invalidf("manufacturer is required")
	}
	if v.VehicleNumber == "" {
		return invalidf("vehicleNumber is required")
	}
	if v.FixedRateFor5Km < 0 || v.PerKmRate < 0 {
		return invalidf("rates must not be negative")
	}
	return nil
}

func verifyDriver(d *dbt.Driver) error {
	if d.Name == "" {
		return invalidf("name is required")
	}
	if d.Phone == "" {
		return invalidf("phone is required")
	}
	return nil
}

func verifyContract(c *dbt.Contract) error {
	if c.ContractName == "" {
		return invalidf("contractName is required")
	}
	if c.VehicleID == uuid.Nil {
		return invalidf("vehicleId is required")
	}
	if c.Rate < 0 {
		return invalidf("rate must not be negative")
	}
	if c.AverageDistance < 0 {
		return invalidf("averageDistance must not be negative")
	}
	if c.ContractEndDate.IsZero() {
		return invalidf("contractEndDate is required")
	}
	return nil
}

// verifyTrip enforces the tagged-variant schema: the common fields always,
// contractId only for contract trips, the odometer readings only for savari
// trips.
func verifyTrip(t *dbt.Trip) error {
	if t.VehicleID == uuid.Nil {
		return invalidf("vehicleId is required")
	}
	if t.ClientName == "" {
		return invalidf("clientName is required")
	}
	if t.DriverName == "" {
		return invalidf("driverName is required")
	}
	if t.TripDate.IsZero() {
		return invalidf("tripDate is required")
	}
	if t.DriverSalary < 0 {
		return invalidf("driverSalary must not be negative")
	}
	if t.TripRate < 0 {
		return invalidf("tripRate must not be negative")
	}

	switch t.TripType {
	case dbt.TripTypeContract:
		if t.ContractID == nil || *t.ContractID == uuid.Nil {
			return invalidf("contractId is required for contract trips")
		}
	case dbt.TripTypeSavari:
		if t.StartKm == nil || t.EndKm == nil {
			return invalidf("startKm and endKm are required for savari trips")
		}
		if *t.EndKm < *t.StartKm {
			return invalidf("endKm %.2f must not be below startKm %.2f", *t.EndKm, *t.StartKm)
		}
	default:
		return invalidf("tripType must be contract or savari, got %q", t.TripType)
	}
	return nil
}
