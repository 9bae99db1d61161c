package models

import "time"

// ApprovalState is the incentive approval state derived from the nullable
// incentive_approved flag plus payment_status.
type ApprovalState string

const (
	ApprovalPending          ApprovalState = "pending"
	ApprovalApproved         ApprovalState = "approved"
	ApprovalRejected         ApprovalState = "rejected"
	ApprovalCorrectionNeeded ApprovalState = "correction_needed"
)

// PaymentState is the payment lifecycle of an approved trip.
type PaymentState string

const (
	PaymentUnset           PaymentState = ""
	PaymentProcessing      PaymentState = "processing"
	PaymentTransferPending PaymentState = "transfer_pending"
	PaymentPaid            PaymentState = "paid"
	PaymentRejected        PaymentState = "rejected"
	PaymentCorrection      PaymentState = "correction_needed"
)

// approvalTransitions lists the allowed approval flows. requestCorrection is
// the only transition that may leave the approved state; it flags the trip
// for rework without clearing the approval.
var approvalTransitions = map[ApprovalState][]ApprovalState{
	ApprovalPending:          {ApprovalApproved, ApprovalRejected, ApprovalCorrectionNeeded},
	ApprovalApproved:         {ApprovalCorrectionNeeded},
	ApprovalRejected:         {},
	ApprovalCorrectionNeeded: {ApprovalRejected},
}

// paymentTransitions lists the allowed payment flows. paid is terminal;
// everything else is revisitable.
var paymentTransitions = map[PaymentState][]PaymentState{
	PaymentUnset:           {PaymentProcessing, PaymentTransferPending, PaymentPaid},
	PaymentProcessing:      {PaymentTransferPending, PaymentPaid},
	PaymentTransferPending: {PaymentProcessing, PaymentPaid},
	PaymentPaid:            {},
}

// CanTransitionApproval reports whether from -> to is an allowed approval
// flow. Re-applying the current state counts as allowed (no-op).
func CanTransitionApproval(from, to ApprovalState) bool {
	if from == to {
		return true
	}
	for _, s := range approvalTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment reports whether from -> to is an allowed payment flow.
// Re-applying a non-terminal state is a no-op, not an error; paid never
// transitions again.
func CanTransitionPayment(from, to PaymentState) bool {
	if from == PaymentPaid {
		return false
	}
	if from == to {
		return true
	}
	for _, s := range paymentTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ApprovalStateOf derives the approval state from a stop's denormalized
// fields. A correction flag wins regardless of the approval flag so that an
// approved-but-flagged trip surfaces as needing rework.
func ApprovalStateOf(s StopRecord) ApprovalState {
	if PaymentState(s.PaymentStatus) == PaymentCorrection {
		return ApprovalCorrectionNeeded
	}
	switch {
	case s.IncentiveApproved == nil:
		return ApprovalPending
	case *s.IncentiveApproved:
		return ApprovalApproved
	default:
		return ApprovalRejected
	}
}

// PaymentStateOf derives the payment state from a stop's payment_status.
func PaymentStateOf(s StopRecord) PaymentState {
	switch PaymentState(s.PaymentStatus) {
	case PaymentProcessing:
		return PaymentProcessing
	case PaymentTransferPending:
		return PaymentTransferPending
	case PaymentPaid:
		return PaymentPaid
	default:
		return PaymentUnset
	}
}

// Trip is the derived aggregate over all stops sharing a reference. It is
// never persisted; every read re-derives it by grouping.
type Trip struct {
	Reference       string     `json:"reference"`
	RowCount        int        `json:"row_count"`
	StopCount       int        `json:"stop_count"`
	TotalDistanceKm float64    `json:"total_distance_km"`
	Drivers         string     `json:"drivers"`
	DriverCount     int        `json:"driver_count"`
	VehicleDesc     string     `json:"vehicle_desc"`
	StartedAt       *time.Time `json:"started_at"`
	ClosedAt        *time.Time `json:"closed_at"`
	DurationHours   float64    `json:"duration_hours"`
	WorkingDays     int        `json:"working_days"`

	IncentiveRate       float64    `json:"incentive_rate"`
	IncentiveAmount     float64    `json:"incentive_amount"`
	IncentiveApprovedBy string     `json:"incentive_approved_by,omitempty"`
	IncentiveApprovedAt *time.Time `json:"incentive_approved_at,omitempty"`

	ApprovalState ApprovalState `json:"approval_state"`
	PaymentState  PaymentState  `json:"payment_state"`
	PaymentNotes  string        `json:"payment_notes,omitempty"`
	PaidAt        *time.Time    `json:"paid_at"`

	IsHolidayWork         bool       `json:"is_holiday_work"`
	HolidayWorkApproved   *bool      `json:"holiday_work_approved"`
	HolidayWorkApprovedBy string     `json:"holiday_work_approved_by,omitempty"`
	HolidayWorkApprovedAt *time.Time `json:"holiday_work_approved_at,omitempty"`

	BankName          string `json:"bank_name"`
	BankAccountNumber string `json:"bank_account_number"`
	Notes             string `json:"notes"`

	// Inconsistent marks a denormalization anomaly: rows of this reference
	// disagree on trip-level fields. Surfaced, never reconciled.
	Inconsistent bool `json:"inconsistent,omitempty"`

	Stops []StopRecord `json:"stops,omitempty"`
}
