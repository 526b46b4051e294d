package billing

import "fmt"

// FixedRateDistanceKm is the distance covered by a vehicle's flat charge.
// Kilometers beyond it are billed at the vehicle's per-km rate.
const FixedRateDistanceKm = 5.0

// FareResult is the outcome of a fare computation. The rates actually
// applied are recorded alongside the fare so stored trips can be audited
// even after the vehicle's pricing changes.
type FareResult struct {
	Fare          float64
	AdditionalKm  float64
	FixedRateUsed float64
	PerKmRateUsed float64
}

// ComputeFare calculates the distance-based charge for a trip.
// A trip of FixedRateDistanceKm or less costs the flat rate; every
// kilometer beyond it adds perKmRate. Zero distance still bills the
// flat rate, it is a minimum charge rather than an error.
func ComputeFare(distanceKm, fixedRateFor5Km, perKmRate float64) (FareResult, error) {
	if distanceKm < 0 {
		return FareResult{}, fmt.Errorf("distance must not be negative, got %.2f", distanceKm)
	}
	if fixedRateFor5Km < 0 || perKmRate < 0 {
		return FareResult{}, fmt.Errorf("rates must not be negative, got fixed %.2f per km %.2f", fixedRateFor5Km, perKmRate)
	}

	additionalKm := distanceKm - FixedRateDistanceKm
	if additionalKm < 0 {
		additionalKm = 0
	}

	return FareResult{
		Fare:          fixedRateFor5Km + perKmRate*additionalKm,
		AdditionalKm:  additionalKm,
		FixedRateUsed: fixedRateFor5Km,
		PerKmRateUsed: perKmRate,
	}, nil
}

// ResolveDriverSalary picks the salary to store on a trip. A manual
// override bypasses any computed default and is used verbatim; otherwise
// the caller-submitted value stands. No default salary formula exists.
func ResolveDriverSalary(isManual bool, manualSalary, submitted float64) float64 {
	if isManual {
		return manualSalary
	}
	return submitted
}
