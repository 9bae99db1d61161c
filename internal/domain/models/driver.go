package models

import "time"

// Driver is a driver-master row including the payout account used by the
// payment processing screen.
type Driver struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Phone             string    `json:"phone"`
	LicenseNo         string    `json:"license_no"`
	BankName          string    `json:"bank_name"`
	BankAccountNumber string    `json:"bank_account_number"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Job is one logical assignment in the driver_jobs table. The per-stop rows
// in the stops table link back to it via reference.
type Job struct {
	ID         int64     `json:"id"`
	Reference  string    `json:"reference"`
	ShipmentNo string    `json:"shipment_no"`
	Drivers    string    `json:"drivers"`
	Status     string    `json:"status"`
	TripEnded  bool      `json:"trip_ended"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
