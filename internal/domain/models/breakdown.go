package models

import "time"

// BreakdownReport is a driver-filed vehicle breakdown tied to a trip.
type BreakdownReport struct {
	ID                int64      `json:"id"`
	Reference         string     `json:"reference"`
	VehicleDesc       string     `json:"vehicle_desc"`
	Drivers           string     `json:"drivers"`
	Description       string     `json:"description"`
	Status            string     `json:"status"` // reported | in_progress | resolved
	AssignedVehicle   string     `json:"assigned_vehicle"`
	AdminNotes        string     `json:"admin_notes"`
	RequestNewVehicle bool       `json:"request_new_vehicle"`
	RequestCloseTrip  bool       `json:"request_close_trip"`
	ResolvedAt        *time.Time `json:"resolved_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

const (
	BreakdownReported   = "reported"
	BreakdownInProgress = "in_progress"
	BreakdownResolved   = "resolved"
)
