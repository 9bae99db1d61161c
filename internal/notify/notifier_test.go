package notify

import (
	"fmt"
	"testing"
	"time"

	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/stream"
)

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func updateEvent(old, now models.StopRecord) stream.ChangeEvent {
	return stream.ChangeEvent{Type: stream.EventUpdate, Table: "stops", Old: &old, New: &now}
}

func TestApprovalChangeNotifiesIncentives(t *testing.T) {
	n := NewNotifier()

	old := models.StopRecord{Reference: "REF100"}
	now := models.StopRecord{Reference: "REF100", IncentiveApproved: boolPtr(true)}
	n.Handle(updateEvent(old, now))

	notes := n.Notifications(0)
	if len(notes) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notes))
	}
	if notes[0].Section != SectionIncentives {
		t.Errorf("section = %s, want incentives", notes[0].Section)
	}
	if notes[0].Title != "Incentive approved" {
		t.Errorf("title = %q", notes[0].Title)
	}
	if n.Unread()[SectionIncentives] != 1 {
		t.Errorf("unread = %v, want incentives=1", n.Unread())
	}
}

func TestUnchangedRowProducesNothing(t *testing.T) {
	n := NewNotifier()

	rec := models.StopRecord{Reference: "REF101", PaymentStatus: "processing"}
	n.Handle(updateEvent(rec, rec))

	if got := len(n.Notifications(0)); got != 0 {
		t.Errorf("no-change update produced %d notifications", got)
	}
}

func TestActiveViewGetsRefreshNotBadge(t *testing.T) {
	n := NewNotifier()
	n.SetActiveView(SectionPayments)

	old := models.StopRecord{Reference: "REF102", PaymentStatus: "processing"}
	now := models.StopRecord{Reference: "REF102", PaymentStatus: "paid"}
	n.Handle(updateEvent(old, now))

	if n.Unread()[SectionPayments] != 0 {
		t.Errorf("active section must not accumulate unread, got %d", n.Unread()[SectionPayments])
	}
	if !n.ConsumeRefresh(SectionPayments) {
		t.Error("active section should be told to refresh")
	}
	if n.ConsumeRefresh(SectionPayments) {
		t.Error("refresh hint must clear after consumption")
	}
}

func TestInactiveSectionBadges(t *testing.T) {
	n := NewNotifier()
	n.SetActiveView(SectionPayments)

	old := models.StopRecord{Reference: "REF103", IsHolidayWork: true}
	now := models.StopRecord{Reference: "REF103", IsHolidayWork: true, HolidayWorkApproved: boolPtr(false)}
	n.Handle(updateEvent(old, now))

	if n.Unread()[SectionHoliday] != 1 {
		t.Errorf("inactive section should badge, unread = %v", n.Unread())
	}
	if n.ConsumeRefresh(SectionHoliday) {
		t.Error("inactive section should not refresh")
	}
}

func TestCheckinAndTripEndNotifyJobs(t *testing.T) {
	n := NewNotifier()

	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	old := models.StopRecord{Reference: "REF104", Destination: "WH-A"}
	now := old
	now.CheckinTime = timePtr(at)
	n.Handle(updateEvent(old, now))

	ended := now
	ended.TripEnded = true
	n.Handle(updateEvent(now, ended))

	notes := n.Notifications(0)
	if len(notes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(notes))
	}
	for _, note := range notes {
		if note.Section != SectionJobs {
			t.Errorf("section = %s, want jobs", note.Section)
		}
	}
	// newest first
	if notes[0].Title != "Trip ended" {
		t.Errorf("first title = %q, want Trip ended", notes[0].Title)
	}
}

func TestHistoryBounded(t *testing.T) {
	n := NewNotifier()

	for i := 0; i < maxHistory+25; i++ {
		old := models.StopRecord{Reference: fmt.Sprintf("REF%03d", i)}
		now := old
		now.IncentiveApproved = boolPtr(true)
		n.Handle(updateEvent(old, now))
	}

	notes := n.Notifications(0)
	if len(notes) != maxHistory {
		t.Fatalf("history length = %d, want %d", len(notes), maxHistory)
	}
	// the oldest entries fell off; the newest reference survives at the head
	if notes[0].Reference != fmt.Sprintf("REF%03d", maxHistory+24) {
		t.Errorf("head = %s, want newest", notes[0].Reference)
	}
}

func TestMarkAllRead(t *testing.T) {
	n := NewNotifier()

	old := models.StopRecord{Reference: "REF105"}
	now := models.StopRecord{Reference: "REF105", IncentiveApproved: boolPtr(false)}
	n.Handle(updateEvent(old, now))

	n.MarkAllRead(SectionIncentives)
	if n.Unread()[SectionIncentives] != 0 {
		t.Errorf("unread after mark-read = %d", n.Unread()[SectionIncentives])
	}
	if notes := n.Notifications(0); len(notes) != 1 || !notes[0].Read {
		t.Error("entries should be flagged read")
	}
}

func TestInsertNotifiesNewTrip(t *testing.T) {
	n := NewNotifier()

	rec := models.StopRecord{Reference: "REF106", Drivers: "Somchai"}
	n.Handle(stream.ChangeEvent{Type: stream.EventInsert, Table: "stops", New: &rec})

	notes := n.Notifications(0)
	if len(notes) != 1 || notes[0].Title != "New trip started" {
		t.Fatalf("unexpected notifications %+v", notes)
	}
}
