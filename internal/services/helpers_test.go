package services

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetadmin/internal/domain/models"
)

var stopTestColumns = []string{
	"id", "reference", "seq", "ship_to", "ship_to_name", "destination",
	"checkin_time", "checkout_time", "checkin_odo", "checkout_odo", "end_odo",
	"distance_km", "vehicle_desc", "drivers", "driver_count", "job_closed_at",
	"trip_ended", "incentive_approved", "incentive_approved_by",
	"incentive_approved_at", "incentive_rate", "incentive_amount",
	"incentive_distance", "incentive_stops", "incentive_notes",
	"payment_status", "payment_notes", "paid_at", "is_holiday_work",
	"holiday_work_approved", "holiday_work_approved_by",
	"holiday_work_approved_at", "holiday_work_notes", "bank_name",
	"bank_account_number", "materials", "total_qty", "receiver_name",
	"created_at", "updated_at",
}

func stopRows() *sqlmock.Rows {
	return sqlmock.NewRows(stopTestColumns)
}

func nilableBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func nilableTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

func addStop(rows *sqlmock.Rows, s models.StopRecord) *sqlmock.Rows {
	return rows.AddRow(
		s.ID, s.Reference, s.Seq, s.ShipTo, s.ShipToName, s.Destination,
		nilableTime(s.CheckinTime), nilableTime(s.CheckoutTime),
		s.CheckinOdo, s.CheckoutOdo, s.EndOdo,
		s.DistanceKm, s.VehicleDesc, s.Drivers, s.DriverCount,
		nilableTime(s.JobClosedAt),
		s.TripEnded, nilableBool(s.IncentiveApproved), s.IncentiveApprovedBy,
		nilableTime(s.IncentiveApprovedAt), s.IncentiveRate, s.IncentiveAmount,
		s.IncentiveDistance, s.IncentiveStops, s.IncentiveNotes,
		s.PaymentStatus, s.PaymentNotes, nilableTime(s.PaidAt), s.IsHolidayWork,
		nilableBool(s.HolidayWorkApproved), s.HolidayWorkApprovedBy,
		nilableTime(s.HolidayWorkApprovedAt), s.HolidayWorkNotes, s.BankName,
		s.BankAccountNumber, s.Materials, s.TotalQty, s.ReceiverName,
		s.CreatedAt, s.UpdatedAt,
	)
}

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

// closedStop builds a closed stop with the fields the aggregation cares
// about.
func closedStop(ref string, seq int, dest string, distance float64, at time.Time) models.StopRecord {
	out := at.Add(30 * time.Minute)
	return models.StopRecord{
		ID:           int64(seq),
		Reference:    ref,
		Seq:          seq,
		ShipTo:       dest,
		Destination:  dest,
		DistanceKm:   distance,
		Drivers:      "Somchai",
		DriverCount:  1,
		VehicleDesc:  "70-1234",
		CheckinTime:  timePtr(at),
		CheckoutTime: timePtr(out),
		JobClosedAt:  timePtr(out),
	}
}
