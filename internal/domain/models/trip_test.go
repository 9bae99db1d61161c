package models

import "testing"

func boolPtr(b bool) *bool { return &b }

func TestApprovalTransitions(t *testing.T) {
	cases := []struct {
		from, to ApprovalState
		want     bool
	}{
		{ApprovalPending, ApprovalApproved, true},
		{ApprovalPending, ApprovalRejected, true},
		{ApprovalPending, ApprovalCorrectionNeeded, true},
		{ApprovalApproved, ApprovalCorrectionNeeded, true},
		{ApprovalApproved, ApprovalRejected, false},
		{ApprovalApproved, ApprovalPending, false},
		{ApprovalRejected, ApprovalApproved, false},
		{ApprovalCorrectionNeeded, ApprovalRejected, true},
		{ApprovalCorrectionNeeded, ApprovalApproved, false},
		// re-applying the current state is a no-op
		{ApprovalApproved, ApprovalApproved, true},
		{ApprovalRejected, ApprovalRejected, true},
	}
	for _, c := range cases {
		if got := CanTransitionApproval(c.from, c.to); got != c.want {
			t.Errorf("CanTransitionApproval(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestPaymentTransitionsPaidIsTerminal(t *testing.T) {
	for _, to := range []PaymentState{PaymentUnset, PaymentProcessing, PaymentTransferPending, PaymentPaid} {
		if CanTransitionPayment(PaymentPaid, to) {
			t.Errorf("paid must be terminal, but paid -> %s allowed", to)
		}
	}
}

func TestPaymentTransitions(t *testing.T) {
	cases := []struct {
		from, to PaymentState
		want     bool
	}{
		{PaymentUnset, PaymentProcessing, true},
		{PaymentUnset, PaymentTransferPending, true},
		{PaymentUnset, PaymentPaid, true},
		{PaymentProcessing, PaymentTransferPending, true},
		{PaymentTransferPending, PaymentProcessing, true},
		{PaymentProcessing, PaymentPaid, true},
		{PaymentTransferPending, PaymentPaid, true},
		{PaymentProcessing, PaymentProcessing, true},
	}
	for _, c := range cases {
		if got := CanTransitionPayment(c.from, c.to); got != c.want {
			t.Errorf("CanTransitionPayment(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestApprovalStateDerivation(t *testing.T) {
	if got := ApprovalStateOf(StopRecord{}); got != ApprovalPending {
		t.Errorf("no flag should be pending, got %s", got)
	}
	if got := ApprovalStateOf(StopRecord{IncentiveApproved: boolPtr(true)}); got != ApprovalApproved {
		t.Errorf("approved flag should be approved, got %s", got)
	}
	if got := ApprovalStateOf(StopRecord{IncentiveApproved: boolPtr(false)}); got != ApprovalRejected {
		t.Errorf("false flag should be rejected, got %s", got)
	}

	// a correction flag wins even when the trip is approved
	got := ApprovalStateOf(StopRecord{
		IncentiveApproved: boolPtr(true),
		PaymentStatus:     string(PaymentCorrection),
	})
	if got != ApprovalCorrectionNeeded {
		t.Errorf("correction flag must win over approval, got %s", got)
	}
}

func TestPaymentStateDerivation(t *testing.T) {
	if got := PaymentStateOf(StopRecord{}); got != PaymentUnset {
		t.Errorf("empty status should be unset, got %q", got)
	}
	if got := PaymentStateOf(StopRecord{PaymentStatus: "paid"}); got != PaymentPaid {
		t.Errorf("paid status should be paid, got %q", got)
	}
	// rejected and correction live on the approval axis, not the payment one
	if got := PaymentStateOf(StopRecord{PaymentStatus: "rejected"}); got != PaymentUnset {
		t.Errorf("rejected status should not be a payment state, got %q", got)
	}
}
