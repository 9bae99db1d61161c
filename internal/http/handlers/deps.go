package handlers

import (
	"fleetadmin/internal/notify"
	"fleetadmin/internal/repositories"
	"fleetadmin/internal/services"
)

// Package-level wiring, set once at startup before the router mounts.
var (
	tripSvc     services.TripService
	approvalSvc services.ApprovalService
	paymentSvc  services.PaymentService
	holidaySvc  services.HolidayService
	bulkSvc     *services.BulkService

	jobRepo       repositories.JobRepository
	breakdownRepo repositories.BreakdownRepository
	driverRepo    repositories.DriverRepository
	userRepo      repositories.UserRepository

	notifier *notify.Notifier
)

// Deps carries everything the handlers need.
type Deps struct {
	Trips     services.TripService
	Bulk      *services.BulkService
	Jobs      repositories.JobRepository
	Breakdown repositories.BreakdownRepository
	Drivers   repositories.DriverRepository
	Users     repositories.UserRepository
	Notifier  *notify.Notifier
}

// Setup installs the handler dependencies. Call before NewRouter.
func Setup(d Deps) {
	tripSvc = d.Trips
	approvalSvc = services.ApprovalService{Trips: d.Trips}
	paymentSvc = services.PaymentService{Trips: d.Trips}
	holidaySvc = services.HolidayService{Trips: d.Trips}
	bulkSvc = d.Bulk
	jobRepo = d.Jobs
	breakdownRepo = d.Breakdown
	driverRepo = d.Drivers
	userRepo = d.Users
	notifier = d.Notifier
}
