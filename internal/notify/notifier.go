package notify

import (
	"fmt"
	"sync"
	"time"

	"fleetadmin/internal/domain/models"
	"fleetadmin/internal/stream"
	"fleetadmin/internal/utils"
)

// maxHistory bounds the in-memory notification list. Older entries fall off
// the end.
const maxHistory = 100

// Section names an admin screen. Events for the screen an operator is
// looking at trigger a refresh; everything else only bumps its badge.
type Section string

const (
	SectionIncentives Section = "incentives"
	SectionPayments   Section = "payments"
	SectionHoliday    Section = "holiday"
	SectionJobs       Section = "jobs"
)

// Notification is one entry in the bell dropdown.
type Notification struct {
	ID        int64     `json:"id"`
	Section   Section   `json:"section"`
	Reference string    `json:"reference"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Notifier folds store change events into notifications, unread badges and
// refresh hints. It is fed by the change feed but has no transport of its
// own, which keeps it testable without a broker.
type Notifier struct {
	mu      sync.Mutex
	nextID  int64
	history []Notification
	unread  map[Section]int
	refresh map[Section]bool
	active  Section
}

func NewNotifier() *Notifier {
	return &Notifier{
		unread:  map[Section]int{},
		refresh: map[Section]bool{},
	}
}

// SetActiveView records which screen the operator is on. Stale refresh
// hints for the previous screen are dropped.
func (n *Notifier) SetActiveView(s Section) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.active = s
	delete(n.refresh, s)
}

func (n *Notifier) ActiveView() Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// Unread returns a copy of the badge counters.
func (n *Notifier) Unread() map[Section]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[Section]int, len(n.unread))
	for s, c := range n.unread {
		out[s] = c
	}
	return out
}

// Notifications returns the newest entries first, at most limit.
func (n *Notifier) Notifications(limit int) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if limit <= 0 || limit > len(n.history) {
		limit = len(n.history)
	}
	out := make([]Notification, limit)
	copy(out, n.history[:limit])
	return out
}

// MarkAllRead clears a section's badge and marks its entries read.
func (n *Notifier) MarkAllRead(s Section) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.unread[s] = 0
	for i := range n.history {
		if n.history[i].Section == s {
			n.history[i].Read = true
		}
	}
}

// MarkRead marks a single notification read and drops it from its
// section's badge. Unknown IDs are ignored.
func (n *Notifier) MarkRead(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := range n.history {
		if n.history[i].ID != id {
			continue
		}
		if !n.history[i].Read {
			n.history[i].Read = true
			if n.unread[n.history[i].Section] > 0 {
				n.unread[n.history[i].Section]--
			}
		}
		return
	}
}

// ConsumeRefresh reports whether the section should reload its data, and
// clears the hint.
func (n *Notifier) ConsumeRefresh(s Section) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	hit := n.refresh[s]
	delete(n.refresh, s)
	return hit
}

// Handle folds one change event into notifier state. Unrecognized changes
// are dropped silently; a row update that touches none of the watched
// fields produces nothing.
func (n *Notifier) Handle(ev stream.ChangeEvent) {
	for _, note := range diff(ev) {
		n.add(note)
	}
}

func (n *Notifier) add(note Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	note.ID = n.nextID
	note.CreatedAt = utils.NowUTC()

	n.history = append([]Notification{note}, n.history...)
	if len(n.history) > maxHistory {
		n.history = n.history[:maxHistory]
	}

	if note.Section == n.active {
		n.refresh[note.Section] = true
		return
	}
	n.unread[note.Section]++
}

func diff(ev stream.ChangeEvent) []Notification {
	switch ev.Type {
	case stream.EventInsert:
		if ev.New == nil {
			return nil
		}
		return []Notification{{
			Section:   SectionJobs,
			Reference: ev.New.Reference,
			Title:     "New trip started",
			Body:      fmt.Sprintf("%s by %s", ev.New.Reference, ev.New.Drivers),
		}}
	case stream.EventDelete:
		if ev.Old == nil {
			return nil
		}
		return []Notification{{
			Section:   SectionJobs,
			Reference: ev.Old.Reference,
			Title:     "Trip removed",
			Body:      ev.Old.Reference,
		}}
	case stream.EventUpdate:
		if ev.Old == nil || ev.New == nil {
			return nil
		}
		return diffUpdate(*ev.Old, *ev.New)
	}
	return nil
}

func diffUpdate(old, now models.StopRecord) []Notification {
	var out []Notification
	ref := now.Reference

	if !sameBool(old.IncentiveApproved, now.IncentiveApproved) {
		title := "Incentive decision changed"
		switch {
		case now.IncentiveApproved == nil:
			title = "Incentive reset to pending"
		case *now.IncentiveApproved:
			title = "Incentive approved"
		default:
			title = "Incentive rejected"
		}
		out = append(out, Notification{Section: SectionIncentives, Reference: ref, Title: title, Body: ref})
	}

	if old.PaymentStatus != now.PaymentStatus {
		title := "Payment status changed"
		switch models.PaymentState(now.PaymentStatus) {
		case models.PaymentProcessing:
			title = "Payment processing"
		case models.PaymentTransferPending:
			title = "Transfer pending"
		case models.PaymentPaid:
			title = "Payment completed"
		case models.PaymentCorrection:
			title = "Correction requested"
		case models.PaymentRejected:
			title = "Payment rejected"
		}
		out = append(out, Notification{Section: SectionPayments, Reference: ref, Title: title, Body: ref})
	}

	if !sameBool(old.HolidayWorkApproved, now.HolidayWorkApproved) {
		title := "Holiday work decision changed"
		switch {
		case now.HolidayWorkApproved == nil:
			title = "Holiday work reopened"
		case *now.HolidayWorkApproved:
			title = "Holiday work approved"
		default:
			title = "Holiday work rejected"
		}
		out = append(out, Notification{Section: SectionHoliday, Reference: ref, Title: title, Body: ref})
	}

	if old.CheckinTime == nil && now.CheckinTime != nil {
		out = append(out, Notification{
			Section: SectionJobs, Reference: ref,
			Title: "Driver checked in",
			Body:  fmt.Sprintf("%s at %s", ref, now.Destination),
		})
	}
	if old.CheckoutTime == nil && now.CheckoutTime != nil {
		out = append(out, Notification{
			Section: SectionJobs, Reference: ref,
			Title: "Driver checked out",
			Body:  fmt.Sprintf("%s at %s", ref, now.Destination),
		})
	}
	if !old.TripEnded && now.TripEnded {
		out = append(out, Notification{Section: SectionJobs, Reference: ref, Title: "Trip ended", Body: ref})
	}

	return out
}

func sameBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
