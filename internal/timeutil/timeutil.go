// Package timeutil provides pure conversions between clock-time strings,
// minute offsets, and display strings, plus the canonical times assigned
// to legacy meal categories.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bookcook/bookcook/internal/model"
)

// ClockTime is a parsed "HH:MM" value.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseTime parses an "HH:MM" string. A missing or malformed minute
// component defaults to 0, so "9" and "9:" both parse as 9:00.
func ParseTime(s string) ClockTime {
	hourStr, minuteStr, _ := strings.Cut(s, ":")
	hour, _ := strconv.Atoi(strings.TrimSpace(hourStr))
	minute, err := strconv.Atoi(strings.TrimSpace(minuteStr))
	if err != nil {
		minute = 0
	}
	return ClockTime{Hour: hour, Minute: minute}
}

// FormatForDisplay renders a 24-hour "HH:MM" string as "h[:mm] AM|PM".
// Midnight is 12 AM, and :00 minutes are omitted.
func FormatForDisplay(s string) string {
	t := ParseTime(s)

	period := "AM"
	hour := t.Hour
	if hour >= 12 {
		period = "PM"
	}
	if hour > 12 {
		hour -= 12
	}
	if hour == 0 {
		hour = 12
	}

	if t.Minute == 0 {
		return fmt.Sprintf("%d %s", hour, period)
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, period)
}

// MinutesSinceMidnight converts an "HH:MM" string to a minute offset.
func MinutesSinceMidnight(s string) int {
	t := ParseTime(s)
	return t.Hour*60 + t.Minute
}

// TimeFromMinutes is the inverse of MinutesSinceMidnight.
func TimeFromMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// LegacyCategoryToTime maps a legacy meal category to its canonical
// "HH:MM" time. This is the single source of truth used both when
// merging legacy records for display and when writing legacy-addressed
// additions into the slot format.
func LegacyCategoryToTime(c model.Category) string {
	switch c {
	case model.CategoryBreakfast:
		return "08:00"
	case model.CategoryLunch:
		return "12:30"
	case model.CategoryDinner:
		return "18:30"
	case model.CategorySnack:
		return "15:00"
	}
	return "12:00"
}

// GridConfig describes the slot grid offered by a day view.
type GridConfig struct {
	StartHour       int
	EndHour         int
	IntervalMinutes int
}

// SlotGrid returns the "HH:MM" times from StartHour to EndHour at the
// configured interval. EndHour is included only at minute 0; no partial
// slot extends past it.
func SlotGrid(cfg GridConfig) []string {
	var times []string
	for m := cfg.StartHour * 60; m <= cfg.EndHour*60; m += cfg.IntervalMinutes {
		times = append(times, TimeFromMinutes(m))
	}
	return times
}
