package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbt "yathra/db/db"
	"yathra/mq/mq"
)

func (s *Server) listDrivers(c *gin.Context) {
	drivers, err := s.store.ListDrivers(tenantFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, drivers)
}

func (s *Server) createDriver(c *gin.Context) {
	var driver dbt.Driver
	if err := c.ShouldBindJSON(&driver); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := verifyDriver(&driver); err != nil {
		writeError(c, err)
		return
	}

	tenant := tenantFromContext(c)
	driver.ID = uuid.New()
	driver.UserID = tenant

	if err := s.store.CreateDriver(&driver); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionCreate, mq.EntityDriver, tenant, driver.ID, nil)
	c.JSON(http.StatusCreated, driver)
}

func (s *Server) updateDriver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid driver id"})
		return
	}

	var driver dbt.Driver
	if err := c.ShouldBindJSON(&driver); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := verifyDriver(&driver); err != nil {
		writeError(c, err)
		return
	}

	tenant := tenantFromContext(c)
	old := s.findDriver(tenant, id)

	driver.ID = id
	updated, err := s.store.UpdateDriver(tenant, &driver)
	if err != nil {
		writeError(c, err)
		return
	}

	if old != nil {
		s.events.publishUpdate(mq.EntityDriver, tenant, id, old, updated)
	} else {
		s.events.publish(mq.ActionUpdate, mq.EntityDriver, tenant, id, nil)
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteDriver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid driver id"})
		return
	}

	tenant := tenantFromContext(c)
	if err := s.store.DeleteDriver(tenant, id); err != nil {
		writeError(c, err)
		return
	}

	s.events.publish(mq.ActionDelete, mq.EntityDriver, tenant, id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "driver deleted successfully"})
}

// findDriver looks the driver up in the tenant's listing; the store has no
// single-driver read.
func (s *Server) findDriver(tenant, id uuid.UUID) *dbt.Driver {
	drivers, err := s.store.ListDrivers(tenant)
	if err != nil {
		return nil
	}
	for i := range drivers {
		if drivers[i].ID == id {
			return &drivers[i]
		}
	}
	return nil
}
