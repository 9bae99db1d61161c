package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/http/middleware"
	"fleetadmin/internal/repositories"
	"fleetadmin/internal/utils"
)

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// parseStopFilter reads the shared trip-list query params. Malformed dates
// are dropped rather than rejected; month=current scopes to the running
// calendar month.
func parseStopFilter(c *gin.Context) repositories.StopFilter {
	f := repositories.StopFilter{
		Reference:    strings.TrimSpace(c.Query("reference")),
		Driver:       strings.TrimSpace(c.Query("driver")),
		Vehicle:      strings.TrimSpace(c.Query("vehicle")),
		Search:       strings.TrimSpace(c.Query("q")),
		StatusBucket: strings.TrimSpace(c.Query("status")),
	}
	if v := strings.TrimSpace(c.Query("date_from")); v != "" {
		if _, err := utils.ParseDate(v); err == nil {
			f.DateFrom = v
		}
	}
	if v := strings.TrimSpace(c.Query("date_to")); v != "" {
		if _, err := utils.ParseDate(v); err == nil {
			f.DateTo = v
		}
	}
	if strings.EqualFold(strings.TrimSpace(c.Query("month")), "current") && f.DateFrom == "" {
		f.DateFrom = utils.FormatDate(utils.StartOfMonth(utils.NowUTC()))
	}
	if v := strings.TrimSpace(c.Query("closed")); v == "1" || strings.EqualFold(v, "true") {
		f.ClosedOnly = true
	}
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil && v > 0 {
		f.Limit = v
	}
	return f
}
