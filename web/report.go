package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"yathra/report"
)

// contractBillingReport streams the billing statement for one contract as a
// PDF. startDate/endDate narrow the statement to trips inside the window.
func (s *Server) contractBillingReport(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("contractId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid contract id"})
		return
	}

	params := report.Params{
		Tenant:     tenantFromContext(c),
		ContractID: contractID,
	}
	if v := c.Query("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid startDate"})
			return
		}
		params.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid endDate"})
			return
		}
		params.EndDate = &t
	}

	renderer := report.NewPDFRenderer()
	if err := report.NewBuilder(s.store).Build(c.Request.Context(), params, renderer); err != nil {
		writeError(c, err)
		return
	}

	filename := fmt.Sprintf("contract-billing-%s-%s.pdf", contractID, time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := renderer.Output(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
