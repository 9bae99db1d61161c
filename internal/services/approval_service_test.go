package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
)

func TestApproveComputesAndFreezesAmount(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	approvals := ApprovalService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	seed := func() *sqlmock.Rows {
		rows := stopRows()
		addStop(rows, closedStop("REF010", 1, "WH-A", 10, day))
		addStop(rows, closedStop("REF010", 2, "WH-B", 15, day.Add(time.Hour)))
		addStop(rows, closedStop("REF010", 3, "WH-C", 5, day.Add(2*time.Hour)))
		return rows
	}
	approvedSeed := func() *sqlmock.Rows {
		rows := stopRows()
		for i, d := range []float64{10, 15, 5} {
			s := closedStop("REF010", i+1, "WH", d, day)
			s.IncentiveApproved = boolPtr(true)
			s.IncentiveAmount = 60
			s.IncentiveRate = 2
			addStop(rows, s)
		}
		return rows
	}

	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(seed())        // state read
	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(seed())        // pre-write snapshot
	mock.ExpectExec("UPDATE stops SET").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(approvedSeed()) // reload

	trip, err := approvals.Approve("REF010", domain.Operator{Name: "admin"})
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if trip.ApprovalState != models.ApprovalApproved {
		t.Errorf("state = %s, want approved", trip.ApprovalState)
	}
	if trip.IncentiveAmount != 60 {
		t.Errorf("amount = %.2f, want 60 (30 km at rate 2.0)", trip.IncentiveAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApproveRejectedTripIsInvalid(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	approvals := ApprovalService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	s := closedStop("REF011", 1, "WH-A", 10, day)
	s.IncentiveApproved = boolPtr(false)
	rows := stopRows()
	addStop(rows, s)
	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(rows)

	_, err := approvals.Approve("REF011", domain.Operator{})
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	approvals := ApprovalService{}

	_, err := approvals.Reject("REF012", "  ", domain.Operator{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty reason, got %v", err)
	}
}

func TestRequestCorrectionKeepsApproval(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	approvals := ApprovalService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	approvedRows := func() *sqlmock.Rows {
		s := closedStop("REF013", 1, "WH-A", 10, day)
		s.IncentiveApproved = boolPtr(true)
		s.IncentiveApprovedBy = "admin"
		s.IncentiveAmount = 20
		return addStop(stopRows(), s)
	}
	flaggedRows := func() *sqlmock.Rows {
		s := closedStop("REF013", 1, "WH-A", 10, day)
		s.IncentiveApproved = boolPtr(true)
		s.IncentiveApprovedBy = "admin"
		s.IncentiveAmount = 20
		s.PaymentStatus = string(models.PaymentCorrection)
		return addStop(stopRows(), s)
	}

	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(approvedRows())
	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(approvedRows())
	mock.ExpectExec("UPDATE stops SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(flaggedRows())

	trip, err := approvals.RequestCorrection("REF013", "distance looks wrong", domain.Operator{Name: "admin"})
	if err != nil {
		t.Fatalf("RequestCorrection error: %v", err)
	}
	if trip.ApprovalState != models.ApprovalCorrectionNeeded {
		t.Errorf("state = %s, want correction_needed", trip.ApprovalState)
	}
	// the approval stamp survives the correction round-trip
	if trip.IncentiveApprovedBy != "admin" {
		t.Errorf("approved_by = %q, want admin", trip.IncentiveApprovedBy)
	}
}

func TestResetPaidTripRefused(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	approvals := ApprovalService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	s := closedStop("REF014", 1, "WH-A", 10, day)
	s.IncentiveApproved = boolPtr(true)
	s.PaymentStatus = "paid"
	s.PaidAt = timePtr(day)
	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(addStop(stopRows(), s))

	_, err := approvals.Reset("REF014", domain.Operator{})
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition for paid trip, got %v", err)
	}
}
