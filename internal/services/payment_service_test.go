package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
)

func approvedPaymentStop(ref string, status string, day time.Time) models.StopRecord {
	s := closedStop(ref, 1, "WH-A", 10, day)
	s.IncentiveApproved = boolPtr(true)
	s.IncentiveAmount = 20
	s.IncentiveRate = 2
	s.PaymentStatus = status
	if status == "paid" {
		s.PaidAt = timePtr(day)
	}
	return s
}

func TestMarkPaidStampsPaidAt(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	payments := PaymentService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), approvedPaymentStop("REF020", "processing", day)))
	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), approvedPaymentStop("REF020", "processing", day)))
	mock.ExpectExec("UPDATE stops SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), approvedPaymentStop("REF020", "paid", day)))

	trip, err := payments.MarkPaid("REF020", "", domain.Operator{})
	if err != nil {
		t.Fatalf("MarkPaid error: %v", err)
	}
	if trip.PaymentState != models.PaymentPaid {
		t.Errorf("state = %s, want paid", trip.PaymentState)
	}
	if trip.PaidAt == nil {
		t.Error("paid trip must carry paid_at")
	}
}

func TestMarkPaidTwiceIsNoOp(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	payments := PaymentService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), approvedPaymentStop("REF021", "paid", day)))

	// no UPDATE expected: the write must not happen
	trip, err := payments.MarkPaid("REF021", "", domain.Operator{})
	if err != nil {
		t.Fatalf("repeat MarkPaid should be a no-op, got %v", err)
	}
	if trip.PaymentState != models.PaymentPaid {
		t.Errorf("state = %s, want paid", trip.PaymentState)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMarkProcessingUnapprovedTripRefused(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	payments := PaymentService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), closedStop("REF022", 1, "WH-A", 10, day)))

	_, err := payments.MarkProcessing("REF022", "", domain.Operator{})
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition for unapproved trip, got %v", err)
	}
}

func TestMarkProcessingAfterPaidRefused(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	payments := PaymentService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), approvedPaymentStop("REF023", "paid", day)))

	_, err := payments.MarkProcessing("REF023", "", domain.Operator{})
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("expected invalid transition out of paid, got %v", err)
	}
}
