package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

// GET /api/trips?status=pending&date_from=2024-01-01&driver=...
func GetTrips(c *gin.Context) {
	trips, err := tripSvc.ListTrips(parseStopFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	// List rows omit the per-stop detail.
	for i := range trips {
		trips[i].Stops = nil
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// GET /api/trips/:reference
func GetTrip(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	trip, err := tripSvc.GetTrip(ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// GET /api/trips/summary
func GetTripSummary(c *gin.Context) {
	sum, err := tripSvc.Summary(parseStopFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// DELETE /api/trips/:reference
func DeleteTrip(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	affected, err := tripSvc.Stops.DeleteByReference(ref)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "trips", "delete", ref)
	c.JSON(http.StatusOK, gin.H{"deleted_rows": affected})
}
