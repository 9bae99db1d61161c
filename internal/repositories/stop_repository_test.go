package repositories

import (
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"fleetadmin/internal/domain"
	"fleetadmin/internal/notify"
	"fleetadmin/internal/stream"
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

func stopRow(ref string, paymentStatus string) *sqlmock.Rows {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(stopTestColumns).AddRow(
		1, ref, 1, "WH-A", "", "WH-A",
		now, now.Add(time.Hour), 0.0, 0.0, 0.0,
		12.5, "70-1234", "Somchai", 1, now.Add(time.Hour),
		true, nil, "",
		nil, 0.0, 0.0,
		0.0, 0, "",
		paymentStatus, "", nil, false,
		nil, "",
		nil, "", "",
		"", "", 0.0, "",
		now, now,
	)
}

type captureFeed struct {
	events []stream.ChangeEvent
}

func (c *captureFeed) PublishChange(ev stream.ChangeEvent) error {
	c.events = append(c.events, ev)
	return nil
}

func TestUpdateByReferencePublishesChange(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	feed := &captureFeed{}
	repo := StopRepository{DB: db, Feed: feed}

	mock.ExpectQuery("SELECT (.+) FROM stops").WithArgs("REF200").
		WillReturnRows(stopRow("REF200", ""))
	mock.ExpectExec("UPDATE stops SET").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT (.+) FROM stops").WithArgs("REF200").
		WillReturnRows(stopRow("REF200", "processing"))

	affected, err := repo.UpdateByReference("REF200", map[string]any{
		"payment_status": "processing",
	})
	if err != nil {
		t.Fatalf("UpdateByReference error: %v", err)
	}
	if affected != 2 {
		t.Errorf("affected = %d, want 2", affected)
	}

	if len(feed.events) != 1 {
		t.Fatalf("expected 1 change event, got %d", len(feed.events))
	}
	ev := feed.events[0]
	if ev.Type != stream.EventUpdate {
		t.Errorf("event type = %s, want UPDATE", ev.Type)
	}
	if ev.Old == nil || ev.New == nil {
		t.Fatal("update event must carry old and new rows")
	}
	if ev.Old.PaymentStatus != "" || ev.New.PaymentStatus != "processing" {
		t.Errorf("old=%q new=%q, want transition to processing", ev.Old.PaymentStatus, ev.New.PaymentStatus)
	}
}

func TestUpdateByReferenceMissingTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := StopRepository{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM stops").WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(stopTestColumns))
	mock.ExpectExec("UPDATE stops SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM stops").WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows(stopTestColumns))

	_, err = repo.UpdateByReference("NOPE", map[string]any{"payment_status": "paid"})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRefusesUnknownColumn(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := StopRepository{DB: db}

	// reference is the grouping key, never a patch target
	_, err = repo.UpdateByReference("REF201", map[string]any{"reference": "OTHER"})
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error for non-whitelisted column, got %v", err)
	}
}

func TestUpdateByReferenceSetPublishesOldAndNew(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	feed := &captureFeed{}
	repo := StopRepository{DB: db, Feed: feed}

	mock.ExpectQuery("SELECT (.+) FROM stops").WithArgs("REF300").
		WillReturnRows(stopRow("REF300", "transfer_pending"))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT reference\\) FROM stops").
		WithArgs("REF300").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("UPDATE stops SET").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM stops").WithArgs("REF300").
		WillReturnRows(stopRow("REF300", "paid"))

	matched, err := repo.UpdateByReferenceSet([]string{"REF300"}, map[string]any{
		"payment_status": "paid",
	})
	if err != nil {
		t.Fatalf("UpdateByReferenceSet error: %v", err)
	}
	if matched != 1 {
		t.Errorf("matched = %d, want 1", matched)
	}

	if len(feed.events) != 1 {
		t.Fatalf("expected 1 change event, got %d", len(feed.events))
	}
	ev := feed.events[0]
	if ev.Old == nil || ev.New == nil {
		t.Fatal("bulk update event must carry old and new rows")
	}
	if ev.Old.PaymentStatus != "transfer_pending" || ev.New.PaymentStatus != "paid" {
		t.Errorf("old=%q new=%q, want transfer_pending to paid", ev.Old.PaymentStatus, ev.New.PaymentStatus)
	}

	// A bulk payment flip must reach the operator like a single one does.
	n := notify.NewNotifier()
	n.Handle(ev)
	notes := n.Notifications(0)
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification from bulk payment flip, got %d", len(notes))
	}
	if notes[0].Section != notify.SectionPayments || notes[0].Title != "Payment completed" {
		t.Errorf("notification = %s/%q, want payments/Payment completed", notes[0].Section, notes[0].Title)
	}
}

func TestUpdateByReferenceSetMissingTripRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := StopRepository{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(DISTINCT reference\\) FROM stops").
		WithArgs("REF202", "REF203").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err = repo.UpdateByReferenceSet([]string{"REF202", "REF203"}, map[string]any{
		"payment_status": "paid",
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByReferenceRequiresReference(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := StopRepository{DB: db}

	if _, err := repo.ListByReference("   "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStopFilterBuckets(t *testing.T) {
	cases := []struct {
		bucket string
		want   string
	}{
		{"pending", "incentive_approved IS NULL"},
		{"ready", "payment_status IS NULL"},
		{"paid", "payment_status='paid'"},
		{"rejected", "payment_status='correction_needed'"},
	}
	for _, c := range cases {
		clause, _ := (StopFilter{StatusBucket: c.bucket}).whereClause()
		if !strings.Contains(clause, c.want) {
			t.Errorf("bucket %s: clause %q missing %q", c.bucket, clause, c.want)
		}
	}

	clause, args := (StopFilter{Reference: " REF204 ", ClosedOnly: true}).whereClause()
	if !strings.Contains(clause, "reference=?") || !strings.Contains(clause, "job_closed_at IS NOT NULL") {
		t.Errorf("clause %q missing reference/closed filters", clause)
	}
	if len(args) != 1 || args[0] != "REF204" {
		t.Errorf("args = %v, want trimmed reference", args)
	}
}
