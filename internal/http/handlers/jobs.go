package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

// GET /api/jobs?q=REF123&limit=100
func GetJobs(c *gin.Context) {
	limit := 0
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil {
		limit = v
	}

	jobs, err := jobRepo.List(c.Query("q"), limit)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

// GET /api/jobs/:reference
func GetJob(c *gin.Context) {
	job, err := jobRepo.GetByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// GET /api/jobs/:reference/stops
func GetJobStops(c *gin.Context) {
	stops, err := tripSvc.Stops.ListByReference(c.Param("reference"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stops": stops, "count": len(stops)})
}

type jobPayload struct {
	Reference  string `json:"reference"`
	ShipmentNo string `json:"shipment_no"`
	Drivers    string `json:"drivers"`
	Status     string `json:"status"`
	TripEnded  bool   `json:"trip_ended"`
}

func (p jobPayload) model() models.Job {
	return models.Job{
		Reference:  p.Reference,
		ShipmentNo: p.ShipmentNo,
		Drivers:    p.Drivers,
		Status:     p.Status,
		TripEnded:  p.TripEnded,
	}
}

// POST /api/jobs
func CreateJob(c *gin.Context) {
	var p jobPayload
	if !BindJSONOrError(c, &p) {
		return
	}

	if _, err := jobRepo.Create(p.model()); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "jobs", "create", p.Reference)

	job, err := jobRepo.GetByReference(p.Reference)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

// PUT /api/jobs/:reference
func UpdateJob(c *gin.Context) {
	ref := c.Param("reference")
	var p jobPayload
	if !BindJSONOrError(c, &p) {
		return
	}

	j := p.model()
	j.Reference = ref
	if err := jobRepo.Update(j); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "jobs", "update", ref)

	job, err := jobRepo.GetByReference(ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// DELETE /api/jobs/:reference
func DeleteJob(c *gin.Context) {
	ref := c.Param("reference")
	if err := jobRepo.Delete(ref); err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "jobs", "delete", ref)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GET /api/vehicles
func GetVehicles(c *gin.Context) {
	vehicles, err := jobRepo.ListVehicles()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles, "count": len(vehicles)})
}
