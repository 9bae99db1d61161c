package services

import (
	"sort"
	"strings"
	"time"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/repositories"
	"fleetadmin/internal/utils"
)

const (
	// Odometer-derived distances outside this window are treated as sensor
	// garbage and dropped.
	maxTripDistanceKm = 2000.0
	maxLegDistanceKm  = 500.0
)

// TripService turns raw stop rows into trip aggregates. The stops table is
// the only source of truth; every summary is recomputed from a fresh scan.
type TripService struct {
	Stops   repositories.StopRepository
	Origins *repositories.OriginRepository

	// DefaultRatePerKm applies to trips whose rows carry no stored rate.
	DefaultRatePerKm float64
}

// TripSummary holds the counters shown at the top of the incentive and
// payment screens. Counts are per trip, never per row.
type TripSummary struct {
	Pending               int     `json:"pending"`
	Ready                 int     `json:"ready"`
	Processing            int     `json:"processing"`
	TransferPending       int     `json:"transfer_pending"`
	Paid                  int     `json:"paid"`
	Rejected              int     `json:"rejected"`
	PendingAmount         float64 `json:"pending_amount"`
	ReadyAmount           float64 `json:"ready_amount"`
	ProcessingAmount      float64 `json:"processing_amount"`
	TransferPendingAmount float64 `json:"transfer_pending_amount"`
	PaidAmount            float64 `json:"paid_amount"`
	RejectedAmount        float64 `json:"rejected_amount"`
}

// ListTrips scans matching stop rows and folds them into trip aggregates,
// newest closed first.
func (s TripService) ListTrips(f repositories.StopFilter) ([]models.Trip, error) {
	rows, err := s.Stops.List(f)
	if err != nil {
		return nil, err
	}
	return s.aggregate(rows), nil
}

// GetTrip loads a single trip with its full stop list.
func (s TripService) GetTrip(reference string) (models.Trip, error) {
	rows, err := s.Stops.ListByReference(reference)
	if err != nil {
		return models.Trip{}, err
	}
	if len(rows) == 0 {
		return models.Trip{}, domain.NotFoundError{Resource: "trip " + reference}
	}
	trips := s.aggregate(rows)
	return trips[0], nil
}

// Summary recomputes the screen counters from a fresh scan.
func (s TripService) Summary(f repositories.StopFilter) (TripSummary, error) {
	trips, err := s.ListTrips(f)
	if err != nil {
		return TripSummary{}, err
	}

	var sum TripSummary
	for _, t := range trips {
		switch {
		case t.PaymentState == models.PaymentPaid:
			sum.Paid++
			sum.PaidAmount += t.IncentiveAmount
		case t.ApprovalState == models.ApprovalRejected,
			t.ApprovalState == models.ApprovalCorrectionNeeded:
			sum.Rejected++
			sum.RejectedAmount += t.IncentiveAmount
		case t.PaymentState == models.PaymentProcessing:
			sum.Processing++
			sum.ProcessingAmount += t.IncentiveAmount
		case t.PaymentState == models.PaymentTransferPending:
			sum.TransferPending++
			sum.TransferPendingAmount += t.IncentiveAmount
		case t.ApprovalState == models.ApprovalApproved:
			sum.Ready++
			sum.ReadyAmount += t.IncentiveAmount
		default:
			sum.Pending++
			sum.PendingAmount += t.IncentiveAmount
		}
	}
	return sum, nil
}

func (s TripService) aggregate(rows []models.StopRecord) []models.Trip {
	groups := map[string][]models.StopRecord{}
	order := []string{}
	for _, row := range rows {
		ref := strings.TrimSpace(row.Reference)
		if ref == "" {
			continue
		}
		if _, seen := groups[ref]; !seen {
			order = append(order, ref)
		}
		groups[ref] = append(groups[ref], row)
	}

	origins := map[string]bool{}
	if s.Origins != nil {
		origins = s.Origins.Keys()
	}

	trips := make([]models.Trip, 0, len(order))
	for _, ref := range order {
		trips = append(trips, s.buildTrip(ref, groups[ref], origins))
	}
	return trips
}

func (s TripService) buildTrip(ref string, stops []models.StopRecord, origins map[string]bool) models.Trip {
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Seq < stops[j].Seq })

	first := stops[0]
	t := models.Trip{
		Reference:             ref,
		RowCount:              len(stops),
		Drivers:               first.Drivers,
		DriverCount:           first.DriverCount,
		VehicleDesc:           first.VehicleDesc,
		BankName:              first.BankName,
		BankAccountNumber:     first.BankAccountNumber,
		IsHolidayWork:         first.IsHolidayWork,
		HolidayWorkApproved:   first.HolidayWorkApproved,
		HolidayWorkApprovedBy: first.HolidayWorkApprovedBy,
		HolidayWorkApprovedAt: first.HolidayWorkApprovedAt,
		IncentiveApprovedBy:   first.IncentiveApprovedBy,
		IncentiveApprovedAt:   first.IncentiveApprovedAt,
		PaidAt:                first.PaidAt,
		Notes:                 first.IncentiveNotes,
		PaymentNotes:          first.PaymentNotes,
		Stops:                 stops,
	}

	t.ApprovalState = models.ApprovalStateOf(first)
	t.PaymentState = models.PaymentStateOf(first)

	// Every row carries the same trip-level fields; disagreement means a
	// write landed on a subset of rows.
	for _, row := range stops[1:] {
		if !sameBoolPtr(row.IncentiveApproved, first.IncentiveApproved) ||
			row.PaymentStatus != first.PaymentStatus ||
			!sameBoolPtr(row.HolidayWorkApproved, first.HolidayWorkApproved) {
			t.Inconsistent = true
			break
		}
	}

	// Unique delivery stops; rows at an origin location do not count.
	seen := map[string]bool{}
	days := map[string]bool{}
	allClosed := true
	var firstCheckin, lastCheckout *time.Time
	for _, row := range stops {
		key := row.DestinationKey()
		if key != "" && !origins[key] {
			seen[key] = true
		}
		if row.CheckinTime != nil {
			days[utils.DayKey(*row.CheckinTime)] = true
			if firstCheckin == nil || row.CheckinTime.Before(*firstCheckin) {
				firstCheckin = row.CheckinTime
			}
		}
		if row.CheckoutTime != nil {
			days[utils.DayKey(*row.CheckoutTime)] = true
			if lastCheckout == nil || row.CheckoutTime.After(*lastCheckout) {
				lastCheckout = row.CheckoutTime
			}
		}
		if !row.Closed() {
			allClosed = false
		}
	}
	t.StopCount = len(seen)
	t.WorkingDays = len(days)
	t.StartedAt = firstCheckin
	if allClosed {
		t.ClosedAt = lastCheckout
		if firstCheckin != nil && lastCheckout != nil {
			t.DurationHours = lastCheckout.Sub(*firstCheckin).Hours()
		}
	}

	t.TotalDistanceKm = tripDistance(stops)

	t.IncentiveRate = first.IncentiveRate
	if t.IncentiveRate <= 0 {
		t.IncentiveRate = s.DefaultRatePerKm
	}
	if first.IncentiveAmount > 0 {
		t.IncentiveAmount = first.IncentiveAmount
	} else {
		t.IncentiveAmount = t.TotalDistanceKm * t.IncentiveRate
	}

	return t
}

// tripDistance sums recorded per-stop distances, falling back to odometer
// readings when the rows carry none. Odometer math is noisy: the preferred
// derivation is final end_odo minus the first check-in reading, then
// per-stop legs, and anything outside (0, 2000) km is discarded as invalid.
func tripDistance(stops []models.StopRecord) float64 {
	var total float64
	for _, row := range stops {
		if row.DistanceKm > 0 {
			total += row.DistanceKm
		}
	}
	if total > 0 {
		return clampTripDistance(total)
	}

	chrono := make([]models.StopRecord, len(stops))
	copy(chrono, stops)
	sort.SliceStable(chrono, func(i, j int) bool {
		ti := chrono[i].CheckinTime
		tj := chrono[j].CheckinTime
		if ti == nil || tj == nil {
			return ti != nil
		}
		return ti.Before(*tj)
	})

	var firstOdo float64
	for _, row := range chrono {
		if row.CheckinOdo > 0 {
			firstOdo = row.CheckinOdo
			break
		}
	}
	var lastEnd float64
	for i := len(chrono) - 1; i >= 0; i-- {
		if chrono[i].EndOdo > 0 {
			lastEnd = chrono[i].EndOdo
			break
		}
	}
	if firstOdo > 0 && lastEnd > firstOdo {
		if d := clampTripDistance(lastEnd - firstOdo); d > 0 {
			return d
		}
	}

	// Per-stop legs as the last resort, skipping readings that imply a
	// single stop longer than any plausible leg.
	var legs float64
	for _, row := range chrono {
		if row.CheckinOdo <= 0 || row.CheckoutOdo <= row.CheckinOdo {
			continue
		}
		leg := row.CheckoutOdo - row.CheckinOdo
		if leg < maxLegDistanceKm {
			legs += leg
		}
	}
	return clampTripDistance(legs)
}

func clampTripDistance(d float64) float64 {
	if d <= 0 || d >= maxTripDistanceKm {
		return 0
	}
	return d
}

func sameBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
