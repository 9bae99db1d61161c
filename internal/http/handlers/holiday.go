package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/utils"
)

// GET /api/holiday-work
func GetHolidayWork(c *gin.Context) {
	trips, err := holidaySvc.ListTrips(parseStopFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	for i := range trips {
		trips[i].Stops = nil
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "count": len(trips)})
}

// GET /api/holiday-work/summary
func GetHolidayWorkSummary(c *gin.Context) {
	sum, err := holidaySvc.Summary(parseStopFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// POST /api/holiday-work/:reference/approve
func ApproveHolidayWork(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	op := middleware.GetOperator(c)

	trip, err := holidaySvc.Approve(ref, op)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "holiday", "approve", ref+" by="+op.DisplayName())
	c.JSON(http.StatusOK, trip)
}

type holidayCommentPayload struct {
	Comment string `json:"comment"`
}

// POST /api/holiday-work/:reference/reject
func RejectHolidayWork(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	var p holidayCommentPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	op := middleware.GetOperator(c)

	trip, err := holidaySvc.Reject(ref, p.Comment, op)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "holiday", "reject", ref)
	c.JSON(http.StatusOK, trip)
}

// POST /api/holiday-work/:reference/reset
func ResetHolidayWork(c *gin.Context) {
	ref := strings.TrimSpace(c.Param("reference"))
	trip, err := holidaySvc.Reset(ref, middleware.GetOperator(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	utils.LogEvent(middleware.GetRequestID(c), "holiday", "reset", ref)
	c.JSON(http.StatusOK, trip)
}
