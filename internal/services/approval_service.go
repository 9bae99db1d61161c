package services

import (
	"fmt"
	"strings"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/utils"
)

// ApprovalService drives the incentive approval flow. Each operation reads
// the trip's current state, validates the transition, then writes the
// trip-level fields across every row of the reference.
type ApprovalService struct {
	Trips TripService
}

func (s ApprovalService) noteEntry(op domain.Operator, text string) string {
	return fmt.Sprintf("[%s] %s: %s", utils.FormatDateTime(utils.NowUTC()), op.DisplayName(), utils.NormalizeSpace(text))
}

// Approve marks a trip's incentive approved and freezes the figures it was
// approved on: distance, stop count and rate are denormalized onto the rows
// so later edits to raw stops cannot drift the approved amount.
func (s ApprovalService) Approve(reference string, op domain.Operator) (models.Trip, error) {
	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}
	if !models.CanTransitionApproval(trip.ApprovalState, models.ApprovalApproved) {
		return models.Trip{}, domain.InvalidTransitionError{
			Reference: reference,
			From:      string(trip.ApprovalState),
			To:        string(models.ApprovalApproved),
		}
	}

	rate := trip.IncentiveRate
	if rate <= 0 {
		rate = s.Trips.DefaultRatePerKm
	}
	amount := trip.TotalDistanceKm * rate

	now := utils.NowUTC()
	patch := map[string]any{
		"incentive_approved":    true,
		"incentive_approved_by": op.DisplayName(),
		"incentive_approved_at": now,
		"incentive_rate":        rate,
		"incentive_amount":      amount,
		"incentive_distance":    trip.TotalDistanceKm,
		"incentive_stops":       trip.StopCount,
		"updated_at":            now,
	}
	if _, err := s.Trips.Stops.UpdateByReference(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// Reject declines a trip's incentive. A reason is mandatory and is appended
// to the trip's note trail, never overwritten.
func (s ApprovalService) Reject(reference, reason string, op domain.Operator) (models.Trip, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Trip{}, domain.ValidationError{Field: "reason", Msg: "required when rejecting"}
	}

	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}
	if !models.CanTransitionApproval(trip.ApprovalState, models.ApprovalRejected) {
		return models.Trip{}, domain.InvalidTransitionError{
			Reference: reference,
			From:      string(trip.ApprovalState),
			To:        string(models.ApprovalRejected),
		}
	}

	now := utils.NowUTC()
	patch := map[string]any{
		"incentive_approved":    false,
		"incentive_approved_by": op.DisplayName(),
		"incentive_approved_at": now,
		"payment_status":        string(models.PaymentRejected),
		"incentive_notes":       utils.AppendNote(trip.Notes, s.noteEntry(op, reason)),
		"updated_at":            now,
	}
	if _, err := s.Trips.Stops.UpdateByReference(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// RequestCorrection flags a trip for rework. The approval flag and auditor
// stamps stay untouched so the history of who approved what survives the
// correction round-trip.
func (s ApprovalService) RequestCorrection(reference, note string, op domain.Operator) (models.Trip, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return models.Trip{}, domain.ValidationError{Field: "note", Msg: "required when requesting correction"}
	}

	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}
	if !models.CanTransitionApproval(trip.ApprovalState, models.ApprovalCorrectionNeeded) {
		return models.Trip{}, domain.InvalidTransitionError{
			Reference: reference,
			From:      string(trip.ApprovalState),
			To:        string(models.ApprovalCorrectionNeeded),
		}
	}

	now := utils.NowUTC()
	patch := map[string]any{
		"payment_status":  string(models.PaymentCorrection),
		"incentive_notes": utils.AppendNote(trip.Notes, s.noteEntry(op, note)),
		"updated_at":      now,
	}
	if _, err := s.Trips.Stops.UpdateByReference(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// EditFigures overwrites the stored incentive numerics regardless of state.
// This is the correction hatch: the operator supplies corrected distance,
// stop count, rate and optionally a fixed amount; when amount is zero it is
// recomputed from distance and rate.
func (s ApprovalService) EditFigures(reference string, distanceKm float64, stopCount int, rate, amount float64, note string, op domain.Operator) (models.Trip, error) {
	if distanceKm < 0 {
		return models.Trip{}, domain.ValidationError{Field: "distance_km", Msg: "must not be negative"}
	}
	if stopCount < 0 {
		return models.Trip{}, domain.ValidationError{Field: "stop_count", Msg: "must not be negative"}
	}
	if amount < 0 {
		return models.Trip{}, domain.ValidationError{Field: "amount", Msg: "must not be negative"}
	}
	if rate <= 0 {
		rate = s.Trips.DefaultRatePerKm
	}
	if amount == 0 {
		amount = distanceKm * rate
	}

	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}

	audit := fmt.Sprintf("edited figures: %.2f km, %d stops, rate %.2f, amount %.2f", distanceKm, stopCount, rate, amount)
	if note = strings.TrimSpace(note); note != "" {
		audit += " - " + note
	}

	now := utils.NowUTC()
	patch := map[string]any{
		"incentive_rate":     rate,
		"incentive_amount":   amount,
		"incentive_distance": distanceKm,
		"incentive_stops":    stopCount,
		"incentive_notes":    utils.AppendNote(trip.Notes, s.noteEntry(op, audit)),
		"updated_at":         now,
	}
	if _, err := s.Trips.Stops.UpdateByReference(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// Reset returns a trip to the pending state, clearing approval stamps and
// payment status. Paid trips cannot be reset.
func (s ApprovalService) Reset(reference string, op domain.Operator) (models.Trip, error) {
	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}
	if trip.PaymentState == models.PaymentPaid {
		return models.Trip{}, domain.InvalidTransitionError{
			Reference: reference,
			From:      string(models.PaymentPaid),
			To:        string(models.ApprovalPending),
			Msg:       "paid trips cannot be reset",
		}
	}

	now := utils.NowUTC()
	patch := map[string]any{
		"incentive_approved":    nil,
		"incentive_approved_by": "",
		"incentive_approved_at": nil,
		"payment_status":        nil,
		"incentive_notes":       utils.AppendNote(trip.Notes, s.noteEntry(op, "reset to pending")),
		"updated_at":            now,
	}
	if _, err := s.Trips.Stops.UpdateByReference(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}
