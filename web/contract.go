package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	dbt "yathra/db/db"
	"yathra/mq/mq"
)

// listContracts returns one page of contracts together with the tenant's
// vehicles; both reads run concurrently and either failure fails the request.
func (s *Server) listContracts(c *gin.Context) {
	tenant := tenantFromContext(c)
	page, limit := pageParams(c)

	filter := dbt.ContractFilter{
		ActiveOnly: c.Query("active") == "true",
		Status:     dbt.ContractStatusFilter(c.Query("status")),
		Now:        time.Now(),
	}
	if v := c.Query("vehicleId"); v != "" {
		vehicleID, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid vehicleId"})
			return
		}
		filter.VehicleID = &vehicleID
	}

	var (
		contracts []dbt.Contract
		total     int64
		vehicles  []dbt.Vehicle
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		contracts, total, err = s.store.ListContracts(tenant, filter, page, limit)
		return err
	})
	g.Go(func() error {
		var err error
		vehicles, err = s.store.ListVehicles(tenant)
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(c, err)
		return
	}

	if err := dbt.NewRefLoader(s.store).HydrateContracts(c.Request.Context(), contracts); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts":  contracts,
		"vehicles":   vehicles,
		"pagination": newPagination(page, limit, total),
	})
}

func (s *Server) createContract(c *gin.Context) {
	var contract dbt.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := verifyContract(&contract); err != nil {
		writeError(c, err)
		return
	}

	tenant := tenantFromContext(c)
	contract.ID = uuid.New()
	contract.UserID = tenant

	if err := s.store.CreateContract(&contract); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionCreate, mq.EntityContract, tenant, contract.ID, nil)
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) updateContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid contract id"})
		return
	}

	var contract dbt.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := verifyContract(&contract); err != nil {
		writeError(c, err)
		return
	}

	tenant := tenantFromContext(c)
	old, err := s.store.GetContract(tenant, id)
	if err != nil {
		writeError(c, err)
		return
	}

	contract.ID = id
	updated, err := s.store.UpdateContract(tenant, &contract)
	if err != nil {
		writeError(c, err)
		return
	}

	s.events.publishUpdate(mq.EntityContract, tenant, id, old, updated)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid contract id"})
		return
	}

	tenant := tenantFromContext(c)
	if err := s.store.DeleteContract(tenant, id); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionDelete, mq.EntityContract, tenant, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "contract deleted successfully"})
}
