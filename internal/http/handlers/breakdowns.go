package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

// GET /api/breakdowns?status=reported
func GetBreakdowns(c *gin.Context) {
	reports, err := breakdownRepo.List(c.Query("status"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

// GET /api/breakdowns/:id
func GetBreakdown(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	report, err := breakdownRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type breakdownStatusPayload struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// PUT /api/breakdowns/:id/status
func SetBreakdownStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	var p breakdownStatusPayload
	if !BindJSONOrError(c, &p) {
		return
	}

	if err := breakdownRepo.SetStatus(id, p.Status, p.Notes); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "breakdowns", "set_status", p.Status)

	report, err := breakdownRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type assignVehiclePayload struct {
	Vehicle string `json:"vehicle" binding:"required"`
}

// PUT /api/breakdowns/:id/vehicle
func AssignBreakdownVehicle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	var p assignVehiclePayload
	if !BindJSONOrError(c, &p) {
		return
	}

	if err := breakdownRepo.AssignVehicle(id, p.Vehicle); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "breakdowns", "assign_vehicle", p.Vehicle)

	report, err := breakdownRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/breakdowns/open-count
func GetOpenBreakdownCount(c *gin.Context) {
	reports, err := breakdownRepo.List("")
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	open := 0
	for _, r := range reports {
		if r.Status != models.BreakdownResolved {
			open++
		}
	}
	c.JSON(http.StatusOK, gin.H{"open": open})
}
