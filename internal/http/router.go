package api

import (
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "fleetadmin/internal/config"
	h "fleetadmin/internal/http/handlers"
	"fleetadmin/internal/http/middleware"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(),
		middleware.Operator(env.JWTSecret),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Trips (aggregated view over stops)
		trips := api.Group("/trips")
		trips.GET("", h.GetTrips)
		trips.GET("/summary", h.GetTripSummary)
		trips.GET("/:reference", h.GetTrip)
		trips.DELETE("/:reference", h.DeleteTrip)

		// Incentive approval
		incentives := api.Group("/incentives")
		incentives.POST("/:reference/approve", h.ApproveIncentive)
		incentives.POST("/:reference/reject", h.RejectIncentive)
		incentives.POST("/:reference/request-correction", h.RequestIncentiveCorrection)
		incentives.PUT("/:reference/figures", h.EditIncentiveFigures)
		incentives.POST("/:reference/reset", h.ResetIncentive)

		// Payments
		payments := api.Group("/payments")
		payments.GET("", h.GetPayments)
		payments.GET("/summary", h.GetPaymentSummary)
		payments.GET("/selection", h.GetPaymentSelection)
		payments.POST("/selection", h.SelectPayment)
		payments.DELETE("/selection", h.ClearPaymentSelection)
		payments.DELETE("/selection/:reference", h.DeselectPayment)
		payments.POST("/bulk/transfer-pending", h.BulkTransferPending)
		payments.POST("/bulk/paid", h.BulkPaid)
		payments.POST("/:reference/processing", h.MarkPaymentProcessing)
		payments.POST("/:reference/transfer-pending", h.MarkPaymentTransferPending)
		payments.POST("/:reference/paid", h.MarkPaymentPaid)
		payments.POST("/:reference/notes", h.AddPaymentNote)

		// Holiday work
		holiday := api.Group("/holiday-work")
		holiday.GET("", h.GetHolidayWork)
		holiday.GET("/summary", h.GetHolidayWorkSummary)
		holiday.POST("/:reference/approve", h.ApproveHolidayWork)
		holiday.POST("/:reference/reject", h.RejectHolidayWork)
		holiday.POST("/:reference/reset", h.ResetHolidayWork)

		// Jobs
		jobs := api.Group("/jobs")
		jobs.GET("", h.GetJobs)
		jobs.POST("", h.CreateJob)
		jobs.GET("/:reference", h.GetJob)
		jobs.PUT("/:reference", h.UpdateJob)
		jobs.DELETE("/:reference", h.DeleteJob)
		jobs.GET("/:reference/stops", h.GetJobStops)

		api.GET("/vehicles", h.GetVehicles)

		// Breakdown reports
		breakdowns := api.Group("/breakdowns")
		breakdowns.GET("", h.GetBreakdowns)
		breakdowns.GET("/open-count", h.GetOpenBreakdownCount)
		breakdowns.GET("/:id", h.GetBreakdown)
		breakdowns.PUT("/:id/status", h.SetBreakdownStatus)
		breakdowns.PUT("/:id/vehicle", h.AssignBreakdownVehicle)

		// Drivers
		drivers := api.Group("/drivers")
		drivers.GET("", h.GetDrivers)
		drivers.GET("/:id", h.GetDriver)
		drivers.POST("", h.CreateDriver)
		drivers.PUT("/:id", h.UpdateDriver)
		drivers.DELETE("/:id", h.DeleteDriver)

		// Users
		users := api.Group("/users")
		users.GET("", h.GetUsers)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)

		// Notifications
		notifications := api.Group("/notifications")
		notifications.GET("", h.GetNotifications)
		notifications.POST("/read", h.MarkNotificationsRead)
		notifications.POST("/:id/read", h.MarkNotificationRead)
		notifications.POST("/active-view", h.SetActiveView)
		notifications.GET("/refresh/:section", h.ConsumeRefresh)
	}

	h.SetRouter(r)
	return r
}
