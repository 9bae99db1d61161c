package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

// GET /api/drivers?q=somchai
func GetDrivers(c *gin.Context) {
	drivers, err := driverRepo.List(c.Query("q"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": drivers, "count": len(drivers)})
}

// GET /api/drivers/:id
func GetDriver(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	d, err := driverRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type driverPayload struct {
	Name              string `json:"name" binding:"required"`
	Phone             string `json:"phone"`
	LicenseNo         string `json:"license_no"`
	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	Active            *bool  `json:"active"`
}

func (p driverPayload) model() models.Driver {
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return models.Driver{
		Name:              p.Name,
		Phone:             p.Phone,
		LicenseNo:         p.LicenseNo,
		BankName:          p.BankName,
		BankAccountNumber: p.BankAccountNumber,
		Active:            active,
	}
}

// POST /api/drivers
func CreateDriver(c *gin.Context) {
	var p driverPayload
	if !BindJSONOrError(c, &p) {
		return
	}

	id, err := driverRepo.Create(p.model())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "drivers", "create", p.Name)

	d, err := driverRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// PUT /api/drivers/:id
func UpdateDriver(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	var p driverPayload
	if !BindJSONOrError(c, &p) {
		return
	}

	d := p.model()
	d.ID = id
	if err := driverRepo.Update(d); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "drivers", "update", p.Name)

	out, err := driverRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DELETE /api/drivers/:id
func DeleteDriver(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	if err := driverRepo.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "drivers", "delete", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
