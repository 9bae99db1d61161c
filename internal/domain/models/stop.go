package models

import "time"

// StopRecord is one row of the stops table: a single checkpoint of a trip.
// Trip-level fields (incentive_*, payment_status, holiday_work_*) are
// denormalized onto every row sharing a reference and must only ever be
// written with a filter on reference, never by primary key.
type StopRecord struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Seq       int    `json:"seq"`

	ShipTo      string `json:"ship_to"`
	ShipToName  string `json:"ship_to_name"`
	Destination string `json:"destination"`

	CheckinTime  *time.Time `json:"checkin_time"`
	CheckoutTime *time.Time `json:"checkout_time"`
	CheckinOdo   float64    `json:"checkin_odo"`
	CheckoutOdo  float64    `json:"checkout_odo"`
	EndOdo       float64    `json:"end_odo"`

	DistanceKm  float64 `json:"distance_km"`
	VehicleDesc string  `json:"vehicle_desc"`
	Drivers     string  `json:"drivers"`
	DriverCount int     `json:"driver_count"`

	JobClosedAt *time.Time `json:"job_closed_at"`
	TripEnded   bool       `json:"trip_ended"`

	IncentiveApproved   *bool      `json:"incentive_approved"`
	IncentiveApprovedBy string     `json:"incentive_approved_by"`
	IncentiveApprovedAt *time.Time `json:"incentive_approved_at"`
	IncentiveRate       float64    `json:"incentive_rate"`
	IncentiveAmount     float64    `json:"incentive_amount"`
	IncentiveDistance   float64    `json:"incentive_distance"`
	IncentiveStops      int        `json:"incentive_stops"`
	IncentiveNotes      string     `json:"incentive_notes"`

	PaymentStatus string     `json:"payment_status"`
	PaymentNotes  string     `json:"payment_notes"`
	PaidAt        *time.Time `json:"paid_at"`

	IsHolidayWork         bool       `json:"is_holiday_work"`
	HolidayWorkApproved   *bool      `json:"holiday_work_approved"`
	HolidayWorkApprovedBy string     `json:"holiday_work_approved_by"`
	HolidayWorkApprovedAt *time.Time `json:"holiday_work_approved_at"`
	HolidayWorkNotes      string     `json:"holiday_work_notes"`

	BankName          string  `json:"bank_name"`
	BankAccountNumber string  `json:"bank_account_number"`
	Materials         string  `json:"materials"`
	TotalQty          float64 `json:"total_qty"`
	ReceiverName      string  `json:"receiver_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Closed reports whether the stop has both check-in and check-out recorded.
func (s StopRecord) Closed() bool {
	return s.CheckinTime != nil && s.CheckoutTime != nil
}

// DestinationKey returns the value used to group stops into unique
// destinations: the ship-to code when present, otherwise the display name.
func (s StopRecord) DestinationKey() string {
	if s.ShipTo != "" {
		return s.ShipTo
	}
	return s.ShipToName
}
