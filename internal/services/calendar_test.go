package services

import (
	"testing"
	"time"
)

func TestLocationCalendarToday(t *testing.T) {
	t.Parallel()

	// 23:30 UTC on Jan 14 is already Jan 15 in Tokyo.
	now := time.Date(2024, 1, 14, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name     string
		location *time.Location
		want     time.Time
	}{
		{name: "utc", location: nil, want: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)},
		{name: "ahead of utc", location: tokyo, want: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calendar := NewCalendar(tt.location).(*locationCalendar)
			calendar.now = func() time.Time { return now }

			got := calendar.Today()
			if !got.Equal(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFixedCalendarToday(t *testing.T) {
	t.Parallel()

	calendar := NewFixedCalendar(time.Date(2024, 1, 15, 18, 45, 0, 0, time.UTC))
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := calendar.Today(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
