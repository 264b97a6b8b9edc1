package timeutil

import (
	"reflect"
	"testing"

	"github.com/bookcook/bookcook/internal/model"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in     string
		hour   int
		minute int
	}{
		{"08:00", 8, 0},
		{"18:30", 18, 30},
		{"0:05", 0, 5},
		{"23:59", 23, 59},
		{"9", 9, 0},
		{"9:", 9, 0},
		{"12:xx", 12, 0},
	}
	for _, tt := range tests {
		got := ParseTime(tt.in)
		if got.Hour != tt.hour || got.Minute != tt.minute {
			t.Errorf("ParseTime(%q) = %d:%d, want %d:%d", tt.in, got.Hour, got.Minute, tt.hour, tt.minute)
		}
	}
}

func TestFormatForDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:00", "12 AM"},
		{"00:30", "12:30 AM"},
		{"08:00", "8 AM"},
		{"12:00", "12 PM"},
		{"12:30", "12:30 PM"},
		{"15:00", "3 PM"},
		{"18:30", "6:30 PM"},
		{"23:05", "11:05 PM"},
	}
	for _, tt := range tests {
		if got := FormatForDisplay(tt.in); got != tt.want {
			t.Errorf("FormatForDisplay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMinutesRoundTrip(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
	}{
		{"00:00", 0},
		{"08:00", 480},
		{"12:30", 750},
		{"23:59", 1439},
	}
	for _, tt := range tests {
		if got := MinutesSinceMidnight(tt.in); got != tt.minutes {
			t.Errorf("MinutesSinceMidnight(%q) = %d, want %d", tt.in, got, tt.minutes)
		}
		if got := TimeFromMinutes(tt.minutes); got != tt.in {
			t.Errorf("TimeFromMinutes(%d) = %q, want %q", tt.minutes, got, tt.in)
		}
	}
}

func TestLegacyCategoryToTime(t *testing.T) {
	tests := []struct {
		category model.Category
		want     string
	}{
		{model.CategoryBreakfast, "08:00"},
		{model.CategoryLunch, "12:30"},
		{model.CategoryDinner, "18:30"},
		{model.CategorySnack, "15:00"},
		{model.Category("brunch"), "12:00"},
	}
	for _, tt := range tests {
		if got := LegacyCategoryToTime(tt.category); got != tt.want {
			t.Errorf("LegacyCategoryToTime(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestSlotGrid(t *testing.T) {
	got := SlotGrid(GridConfig{StartHour: 7, EndHour: 9, IntervalMinutes: 30})
	want := []string{"07:00", "07:30", "08:00", "08:30", "09:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlotGrid = %v, want %v", got, want)
	}
}

func TestSlotGridNoPartialPastEnd(t *testing.T) {
	// 45-minute steps from 8:00 land on 9:30 then would pass 10:00;
	// the grid must stop at the last step at or before the end hour.
	got := SlotGrid(GridConfig{StartHour: 8, EndHour: 10, IntervalMinutes: 45})
	want := []string{"08:00", "08:45", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SlotGrid = %v, want %v", got, want)
	}
}
