package ui

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"over max", "hello world", 8, "hello w…"},
		{"multibyte runes", "¿Hay aparcamiento?", 6, "¿Hay …"},
		{"newlines flattened", "a\nb", 10, "a b"},
		{"max of one", "hello", 1, "h"},
		{"zero max", "hello", 0, ""},
		{"negative max", "Is there parking at the house?", -4, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestGuestStatus(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		in, out    string
		wantStatus string
	}{
		{"future stay", "2026-09-05", "2026-09-10", "future"},
		{"current stay", "2026-08-28", "2026-09-02", "current"},
		{"past stay", "2026-08-01", "2026-08-05", "past"},
		{"unparseable", "soon", "later", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := guestStatus(tt.in, tt.out, now)
			if status != tt.wantStatus {
				t.Errorf("guestStatus() = %q, want %q", status, tt.wantStatus)
			}
		})
	}
}

func TestDayOfGroupsByCalendarDate(t *testing.T) {
	a := dayOf("2026-08-30T09:15:00")
	b := dayOf("2026-08-30T23:59:00")
	c := dayOf("2026-08-31T00:01:00")
	if a != b {
		t.Errorf("same-day timestamps grouped apart: %q vs %q", a, b)
	}
	if b == c {
		t.Errorf("cross-midnight timestamps grouped together: %q", b)
	}
}
