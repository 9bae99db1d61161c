package utils

import (
	"strings"
	"testing"
	"time"
)

func TestAppendNoteKeepsHistory(t *testing.T) {
	first := AppendNote("", "[2025-03-10 09:00] admin: rejected, odometer missing")
	second := AppendNote(first, "[2025-03-11 10:00] admin: figures corrected")

	if !strings.HasPrefix(second, "[2025-03-10") {
		t.Errorf("earlier entries must survive, got %q", second)
	}
	if !strings.Contains(second, "\n\n[2025-03-11") {
		t.Errorf("entries must be separated, got %q", second)
	}
	if AppendNote("existing", "   ") != "existing" {
		t.Error("blank entry must not touch existing notes")
	}
}

func TestDayKeyCollapsesTimes(t *testing.T) {
	morning := time.Date(2025, 3, 10, 6, 0, 0, 0, time.Local)
	evening := time.Date(2025, 3, 10, 22, 30, 0, 0, time.Local)
	if DayKey(morning) != DayKey(evening) {
		t.Errorf("same-day timestamps must share a key: %s vs %s", DayKey(morning), DayKey(evening))
	}
	if DayKey(morning) == DayKey(morning.AddDate(0, 0, 1)) {
		t.Error("different days must not share a key")
	}
}

func TestStartOfMonth(t *testing.T) {
	at := time.Date(2025, 3, 17, 15, 4, 5, 0, time.UTC)
	got := StartOfMonth(at)
	if got.Day() != 1 || got.Hour() != 0 || got.Month() != time.March {
		t.Errorf("StartOfMonth = %v", got)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  too   many\tspaces \n"); got != "too many spaces" {
		t.Errorf("NormalizeSpace = %q", got)
	}
}

func TestFormatBaht(t *testing.T) {
	if got := FormatBaht(1234.5); got != "฿1234.50" {
		t.Errorf("FormatBaht = %q", got)
	}
}
