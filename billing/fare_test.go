package billing

import (
	"math"
	"testing"
)

func TestComputeFare(t *testing.T) {
	tests := []struct {
		name         string
		distanceKm   float64
		fixedRate    float64
		perKmRate    float64
		wantFare     float64
		wantAddKm    float64
	}{
		{
			name:       "Zero distance bills the flat rate as a minimum charge",
			distanceKm: 0, fixedRate: 500, perKmRate: 20,
			wantFare: 500, wantAddKm: 0,
		},
		{
			name:       "Distance under the threshold bills the flat rate",
			distanceKm: 3.5, fixedRate: 500, perKmRate: 20,
			wantFare: 500, wantAddKm: 0,
		},
		{
			name:       "Exactly the threshold bills the flat rate for any per-km rate",
			distanceKm: 5, fixedRate: 500, perKmRate: 9999,
			wantFare: 500, wantAddKm: 0,
		},
		{
			name:       "Kilometers beyond the threshold add the per-km rate",
			distanceKm: 12, fixedRate: 500, perKmRate: 20,
			wantFare: 500 + 20*7, wantAddKm: 7,
		},
		{
			name:       "Zero rates yield a zero fare",
			distanceKm: 30, fixedRate: 0, perKmRate: 0,
			wantFare: 0, wantAddKm: 25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeFare(tt.distanceKm, tt.fixedRate, tt.perKmRate)
			if err != nil {
				t.Fatalf("ComputeFare returned unexpected error: %v", err)
			}
			if math.Abs(got.Fare-tt.wantFare) > 1e-9 {
				t.Errorf("Fare = %.2f, want %.2f", got.Fare, tt.wantFare)
			}
			if math.Abs(got.AdditionalKm-tt.wantAddKm) > 1e-9 {
				t.Errorf("AdditionalKm = %.2f, want %.2f", got.AdditionalKm, tt.wantAddKm)
			}
			if got.FixedRateUsed != tt.fixedRate || got.PerKmRateUsed != tt.perKmRate {
				t.Errorf("rates used = (%.2f, %.2f), want (%.2f, %.2f)",
					got.FixedRateUsed, got.PerKmRateUsed, tt.fixedRate, tt.perKmRate)
			}
			if got.Fare < 0 {
				t.Errorf("fare must be non-negative for non-negative inputs, got %.2f", got.Fare)
			}
		})
	}
}

func TestComputeFareRejectsNegativeInputs(t *testing.T) {
	if _, err := ComputeFare(-1, 500, 20); err == nil {
		t.Error("expected error for negative distance")
	}
	if _, err := ComputeFare(10, -500, 20); err == nil {
		t.Error("expected error for negative fixed rate")
	}
	if _, err := ComputeFare(10, 500, -20); err == nil {
		t.Error("expected error for negative per-km rate")
	}
}

// The fare must never decrease as distance grows for fixed rates.
func TestComputeFareMonotonicInDistance(t *testing.T) {
	const fixed, perKm = 450.0, 18.0
	prev := -1.0
	for d := 0.0; d <= 50; d += 0.5 {
		res, err := ComputeFare(d, fixed, perKm)
		if err != nil {
			t.Fatalf("ComputeFare(%v) error: %v", d, err)
		}
		if res.Fare < prev {
			t.Fatalf("fare decreased from %.2f to %.2f at distance %.1f", prev, res.Fare, d)
		}
		prev = res.Fare
	}
}

func TestResolveDriverSalary(t *testing.T) {
	if got := ResolveDriverSalary(true, 1200, 800); got != 1200 {
		t.Errorf("manual override must win, got %.2f", got)
	}
	if got := ResolveDriverSalary(false, 1200, 800); got != 800 {
		t.Errorf("submitted salary must stand without override, got %.2f", got)
	}
}
