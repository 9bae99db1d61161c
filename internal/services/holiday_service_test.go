package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/repositories"
)

func holidayStop(ref string, approved *bool, day time.Time) models.StopRecord {
	s := closedStop(ref, 1, "WH-A", 10, day)
	s.IsHolidayWork = true
	s.HolidayWorkApproved = approved
	if approved != nil {
		s.HolidayWorkApprovedBy = "admin"
		s.HolidayWorkApprovedAt = timePtr(day)
	}
	return s
}

func TestHolidayRejectRequiresComment(t *testing.T) {
	holidays := HolidayService{}

	_, err := holidays.Reject("REF040", "", domain.Operator{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty comment, got %v", err)
	}
}

func TestHolidayRejectNonHolidayTrip(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	holidays := HolidayService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), closedStop("REF041", 1, "WH-A", 10, day)))

	_, err := holidays.Reject("REF041", "not a holiday", domain.Operator{})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for non-holiday trip, got %v", err)
	}
}

func TestHolidayApproveScopedToHolidayRows(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	holidays := HolidayService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), holidayStop("REF042", nil, day)))
	mock.ExpectExec("UPDATE stops SET (.+) WHERE reference=\\? AND is_holiday_work=1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM stops").
		WillReturnRows(addStop(stopRows(), holidayStop("REF042", boolPtr(true), day)))

	trip, err := holidays.Approve("REF042", domain.Operator{Name: "admin"})
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if trip.HolidayWorkApproved == nil || !*trip.HolidayWorkApproved {
		t.Error("holiday work should be approved")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestHolidaySummaryStates(t *testing.T) {
	svc, mock, done := newTripService(t)
	defer done()
	holidays := HolidayService{Trips: svc}

	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)
	rows := stopRows()
	addStop(rows, holidayStop("REF043", nil, day))
	addStop(rows, holidayStop("REF044", boolPtr(true), day))
	addStop(rows, holidayStop("REF045", boolPtr(false), day))
	mock.ExpectQuery("SELECT (.+) FROM stops").WillReturnRows(rows)

	sum, err := holidays.Summary(repositories.StopFilter{})
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if sum.Pending != 1 || sum.Approved != 1 || sum.Rejected != 1 {
		t.Errorf("summary = %+v, want one of each state", sum)
	}
}
