package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"yathra/billing"
	dbt "yathra/db/db"
	"yathra/mq/mq"
)

// listTrips returns one page of trips plus the pick-lists the trip form
// needs: active contracts, vehicles and drivers. The four reads run
// concurrently; any failure fails the whole request.
func (s *Server) listTrips(c *gin.Context) {
	tenant := tenantFromContext(c)
	page, limit := pageParams(c)

	filter, err := tripFilterFromQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var (
		trips     []dbt.Trip
		total     int64
		contracts []dbt.Contract
		vehicles  []dbt.Vehicle
		drivers   []dbt.Driver
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		trips, total, err = s.store.ListTrips(tenant, filter, page, limit)
		return err
	})
	g.Go(func() error {
		var err error
		contracts, _, err = s.store.ListContracts(tenant, dbt.ContractFilter{ActiveOnly: true, Now: time.Now()}, 1, 1000)
		return err
	})
	g.Go(func() error {
		var err error
		vehicles, err = s.store.ListVehicles(tenant)
		return err
	})
	g.Go(func() error {
		var err error
		drivers, err = s.store.ListDrivers(tenant)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(c, err)
		return
	}

	loader := dbt.NewRefLoader(s.store)
	if err := loader.HydrateTrips(c.Request.Context(), trips); err != nil {
		writeError(c, err)
		return
	}
	if err := loader.HydrateContracts(c.Request.Context(), contracts); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips":      trips,
		"contracts":  contracts,
		"vehicles":   vehicles,
		"drivers":    drivers,
		"pagination": newPagination(page, limit, total),
	})
}

func tripFilterFromQuery(c *gin.Context) (dbt.TripFilter, error) {
	var filter dbt.TripFilter

	if v := c.Query("tripType"); v != "" {
		tripType := dbt.TripType(v)
		if tripType != dbt.TripTypeContract && tripType != dbt.TripTypeSavari {
			return filter, invalidf("tripType must be contract or savari, got %q", v)
		}
		filter.TripType = &tripType
	}
	if v := c.Query("vehicleId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, invalidf("invalid vehicleId")
		}
		filter.VehicleID = &id
	}
	if v := c.Query("contractId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, invalidf("invalid contractId")
		}
		filter.ContractID = &id
	}
	if v := c.Query("salaryPaid"); v != "" {
		paid := v == "true"
		filter.SalaryPaid = &paid
	}
	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, invalidf("invalid startDate")
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return filter, invalidf("invalid endDate")
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *Server) createTrip(c *gin.Context) {
	var trip dbt.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	tenant := tenantFromContext(c)
	trip.ID = uuid.New()
	trip.UserID = tenant
	if trip.TripType == dbt.TripTypeSavari {
		// savari trips never reference a contract
		trip.ContractID = nil
	}

	if err := verifyTrip(&trip); err != nil {
		writeError(c, err)
		return
	}
	if err := s.applyTripComputations(&trip, tenant); err != nil {
		writeError(c, err)
		return
	}

	if err := s.store.CreateTrip(&trip); err != nil {
		writeError(c, err)
		return
	}

	created, err := s.store.GetTrip(tenant, trip.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.hydrateOne(c, created); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionCreate, mq.EntityTrip, tenant, trip.ID, nil)
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid trip id"})
		return
	}

	var trip dbt.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	tenant := tenantFromContext(c)
	trip.ID = id
	if trip.TripType == dbt.TripTypeSavari {
		trip.ContractID = nil
	}

	if err := verifyTrip(&trip); err != nil {
		writeError(c, err)
		return
	}

	old, err := s.store.GetTrip(tenant, id)
	if err != nil {
		writeError(c, err)
		return
	}

	// salary only moves through an explicit manual override
	trip.DriverSalary = billing.ResolveDriverSalary(trip.IsDriverSalaryManual, trip.DriverSalary, old.DriverSalary)

	if err := s.applyTripComputations(&trip, tenant); err != nil {
		writeError(c, err)
		return
	}

	updated, err := s.store.UpdateTrip(tenant, &trip)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.hydrateOne(c, updated); err != nil {
		writeError(c, err)
		return
	}

	s.events.publishUpdate(mq.EntityTrip, tenant, id, old, updated)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid trip id"})
		return
	}

	tenant := tenantFromContext(c)
	if err := s.store.DeleteTrip(tenant, id); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionDelete, mq.EntityTrip, tenant, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "trip deleted successfully"})
}

// contractForTrip returns the contract details the trip form pre-fills from.
func (s *Server) contractForTrip(c *gin.Context) {
	id, err := uuid.Parse(c.Param("contractId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid contract id"})
		return
	}

	tenant := tenantFromContext(c)
	contract, err := s.store.GetContract(tenant, id)
	if err != nil {
		writeError(c, err)
		return
	}

	contracts := []dbt.Contract{*contract}
	if err := dbt.NewRefLoader(s.store).HydrateContracts(c.Request.Context(), contracts); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts[0])
}

// applyTripComputations enforces the write-time derivations: distance is
// always recomputed from the odometer readings when both are present, and a
// savari trip's fare comes from the owning vehicle's pricing tiers.
func (s *Server) applyTripComputations(trip *dbt.Trip, tenant uuid.UUID) error {
	if trip.StartKm != nil && trip.EndKm != nil {
		distance := *trip.EndKm - *trip.StartKm
		if distance < 0 {
			return invalidf("endKm must not be less than startKm")
		}
		trip.Distance = &distance
	}

	if trip.TripType != dbt.TripTypeSavari || trip.Distance == nil {
		return nil
	}

	vehicle, err := s.store.GetVehicle(tenant, trip.VehicleID)
	if err != nil {
		return err
	}

	result, err := billing.ComputeFare(*trip.Distance, vehicle.FixedRateFor5Km, vehicle.PerKmRate)
	if err != nil {
		return invalidf("%v", err)
	}
	trip.TripRate = result.Fare
	trip.FixedRateUsed = &result.FixedRateUsed
	trip.PerKmRateUsed = &result.PerKmRateUsed
	trip.AdditionalKm = &result.AdditionalKm
	trip.OwnerTakeHome = result.Fare - trip.DriverSalary
	return nil
}

// hydrateOne fills the embedded references on a single trip response.
func (s *Server) hydrateOne(c *gin.Context, trip *dbt.Trip) error {
	trips := []dbt.Trip{*trip}
	if err := dbt.NewRefLoader(s.store).HydrateTrips(c.Request.Context(), trips); err != nil {
		return err
	}
	*trip = trips[0]
	return nil
}
