package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fleetadmin/internal/notify"
)

// GET /api/notifications?limit=50
func GetNotifications(c *gin.Context) {
	limit := 0
	if v, err := strconv.Atoi(strings.TrimSpace(c.Query("limit"))); err == nil {
		limit = v
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": notifier.Notifications(limit),
		"unread":        notifier.Unread(),
	})
}

type sectionPayload struct {
	Section string `json:"section" binding:"required"`
}

// POST /api/notifications/read
func MarkNotificationsRead(c *gin.Context) {
	var p sectionPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	notifier.MarkAllRead(notify.Section(p.Section))
	c.JSON(http.StatusOK, gin.H{"unread": notifier.Unread()})
}

// POST /api/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid id", err)
		return
	}
	notifier.MarkRead(id)
	c.JSON(http.StatusOK, gin.H{"unread": notifier.Unread()})
}

// POST /api/notifications/active-view
func SetActiveView(c *gin.Context) {
	var p sectionPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	notifier.SetActiveView(notify.Section(p.Section))
	c.JSON(http.StatusOK, gin.H{"active": p.Section})
}

// GET /api/notifications/refresh/:section
func ConsumeRefresh(c *gin.Context) {
	section := notify.Section(strings.TrimSpace(c.Param("section")))
	c.JSON(http.StatusOK, gin.H{"refresh": notifier.ConsumeRefresh(section)})
}
