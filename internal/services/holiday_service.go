package services

import (
	"strings"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/repositories"
	"fleetadmin/internal/utils"
)

// HolidayService handles holiday-work approval. The flow is independent of
// the incentive flow: a trip can have its incentive paid while its holiday
// claim is still open, and vice versa.
type HolidayService struct {
	Trips TripService
}

// HolidaySummary counts holiday-work trips per state.
type HolidaySummary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// ListTrips returns holiday-work trips only.
func (s HolidayService) ListTrips(f repositories.StopFilter) ([]models.Trip, error) {
	f.HolidayOnly = true
	return s.Trips.ListTrips(f)
}

// Summary recomputes the holiday screen counters. A rejected claim is
// approved=false with an auditor stamp; pending has no stamp at all.
func (s HolidayService) Summary(f repositories.StopFilter) (HolidaySummary, error) {
	trips, err := s.ListTrips(f)
	if err != nil {
		return HolidaySummary{}, err
	}

	var sum HolidaySummary
	for _, t := range trips {
		switch {
		case t.HolidayWorkApproved == nil:
			sum.Pending++
		case *t.HolidayWorkApproved:
			sum.Approved++
		default:
			sum.Rejected++
		}
	}
	return sum, nil
}

// Approve grants a holiday-work claim.
func (s HolidayService) Approve(reference string, op domain.Operator) (models.Trip, error) {
	now := utils.NowUTC()
	patch := map[string]any{
		"holiday_work_approved":    true,
		"holiday_work_approved_by": op.DisplayName(),
		"holiday_work_approved_at": now,
		"updated_at":               now,
	}
	if _, err := s.Trips.Stops.UpdateHolidayWork(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// Reject declines a holiday-work claim. A comment is mandatory.
func (s HolidayService) Reject(reference, comment string, op domain.Operator) (models.Trip, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return models.Trip{}, domain.ValidationError{Field: "comment", Msg: "required when rejecting holiday work"}
	}

	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}
	if !trip.IsHolidayWork {
		return models.Trip{}, domain.NotFoundError{Resource: "holiday work trip " + reference}
	}

	var existing string
	if len(trip.Stops) > 0 {
		existing = trip.Stops[0].HolidayWorkNotes
	}

	now := utils.NowUTC()
	patch := map[string]any{
		"holiday_work_approved":    false,
		"holiday_work_approved_by": op.DisplayName(),
		"holiday_work_approved_at": now,
		"holiday_work_notes":       utils.AppendNote(existing, ApprovalService{Trips: s.Trips}.noteEntry(op, comment)),
		"updated_at":               now,
	}
	if _, err := s.Trips.Stops.UpdateHolidayWork(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// Reset reopens a claim, clearing the decision and its stamps.
func (s HolidayService) Reset(reference string, op domain.Operator) (models.Trip, error) {
	now := utils.NowUTC()
	patch := map[string]any{
		"holiday_work_approved":    nil,
		"holiday_work_approved_by": "",
		"holiday_work_approved_at": nil,
		"updated_at":               now,
	}
	if _, err := s.Trips.Stops.UpdateHolidayWork(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}
