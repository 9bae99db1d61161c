package services

import (
	"strings"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/repositories"
	"fleetadmin/internal/utils"
)

// PaymentService drives the payout lifecycle of approved trips:
// unset -> processing -> transfer_pending -> paid, with paid terminal.
type PaymentService struct {
	Trips TripService
}

func (s PaymentService) transition(reference string, to models.PaymentState, note string, op domain.Operator) (models.Trip, error) {
	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}

	// Paid is terminal; asking for the state a trip is already in is a
	// no-op, not an error.
	if trip.PaymentState == to {
		return trip, nil
	}
	if trip.ApprovalState != models.ApprovalApproved {
		return models.Trip{}, domain.InvalidTransitionError{
			Reference: reference,
			From:      string(trip.ApprovalState),
			To:        string(to),
			Msg:       "only approved trips enter the payment flow",
		}
	}
	if !models.CanTransitionPayment(trip.PaymentState, to) {
		return models.Trip{}, domain.InvalidTransitionError{
			Reference: reference,
			From:      string(trip.PaymentState),
			To:        string(to),
		}
	}

	now := utils.NowUTC()
	patch := map[string]any{
		"payment_status": string(to),
		"updated_at":     now,
	}
	if to == models.PaymentPaid {
		patch["paid_at"] = now
	}
	if note = strings.TrimSpace(note); note != "" {
		entry := ApprovalService{Trips: s.Trips}.noteEntry(op, note)
		patch["payment_notes"] = utils.AppendNote(trip.PaymentNotes, entry)
	}

	if _, err := s.Trips.Stops.UpdateByReference(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// MarkProcessing moves an approved trip into the payment queue.
func (s PaymentService) MarkProcessing(reference, note string, op domain.Operator) (models.Trip, error) {
	return s.transition(reference, models.PaymentProcessing, note, op)
}

// MarkTransferPending records that the bank transfer has been submitted.
func (s PaymentService) MarkTransferPending(reference, note string, op domain.Operator) (models.Trip, error) {
	return s.transition(reference, models.PaymentTransferPending, note, op)
}

// MarkPaid finalizes a payout and stamps paid_at. No state leads out of
// paid.
func (s PaymentService) MarkPaid(reference, note string, op domain.Operator) (models.Trip, error) {
	return s.transition(reference, models.PaymentPaid, note, op)
}

// AddNote appends a timestamped operator note to payment_notes without
// touching the payment state.
func (s PaymentService) AddNote(reference, note string, op domain.Operator) (models.Trip, error) {
	if strings.TrimSpace(note) == "" {
		return models.Trip{}, domain.ValidationError{Field: "note", Msg: "must not be empty"}
	}
	trip, err := s.Trips.GetTrip(reference)
	if err != nil {
		return models.Trip{}, err
	}

	entry := ApprovalService{Trips: s.Trips}.noteEntry(op, note)
	patch := map[string]any{
		"payment_notes": utils.AppendNote(trip.PaymentNotes, entry),
		"updated_at":    utils.NowUTC(),
	}
	if _, err := s.Trips.Stops.UpdateByReference(reference, patch); err != nil {
		return models.Trip{}, err
	}
	return s.Trips.GetTrip(reference)
}

// Summary recomputes the payment screen counters, scoped to trips that
// reached approval.
func (s PaymentService) Summary(f repositories.StopFilter) (TripSummary, error) {
	return s.Trips.Summary(f)
}
