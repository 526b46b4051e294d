package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbt "yathra/db/db"
	"yathra/mq/mq"
)

func (s *Server) listVehicles(c *gin.Context) {
	vehicles, err := s.store.ListVehicles(tenantFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (s *Server) createVehicle(c *gin.Context) {
	var vehicle dbt.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := verifyVehicle(&vehicle); err != nil {
		writeError(c, err)
		return
	}

	tenant := tenantFromContext(c)
	vehicle.ID = uuid.New()
	vehicle.UserID = tenant

	if err := s.store.CreateVehicle(&vehicle); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionCreate, mq.EntityVehicle, tenant, vehicle.ID, nil)
	c.JSON(http.StatusCreated, vehicle)
}

func (s *Server) updateVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid vehicle id"})
		return
	}

	var vehicle dbt.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := verifyVehicle(&vehicle); err != nil {
		writeError(c, err)
		return
	}

	tenant := tenantFromContext(c)
	old, err := s.store.GetVehicle(tenant, id)
	if err != nil {
		writeError(c, err)
		return
	}

	vehicle.ID = id
	updated, err := s.store.UpdateVehicle(tenant, &vehicle)
	if err != nil {
		writeError(c, err)
		return
	}

	s.events.publishUpdate(mq.EntityVehicle, tenant, id, old, updated)
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteVehicle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid vehicle id"})
		return
	}

	tenant := tenantFromContext(c)
	if err := s.store.DeleteVehicle(tenant, id); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionDelete, mq.EntityVehicle, tenant, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted successfully"})
}
