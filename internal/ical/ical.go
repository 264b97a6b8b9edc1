// Package ical converts meal plans into calendar events and serializes
// them as an iCalendar feed for external subscription clients. The
// output is a hard wire format: CRLF line endings, fixed-width UTC
// timestamps, and deterministic UIDs so repeated exports of unchanged
// data are byte-stable.
package ical

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bookcook/bookcook/internal/model"
	"github.com/bookcook/bookcook/internal/timeutil"
)

const (
	// FallbackEmoji labels assignments whose recipe lookup returned
	// nothing; export degrades, it never fails.
	FallbackEmoji = "🍽️"

	defaultDuration = 60
	uidDomain       = "book-cook.app"
	location        = "Kitchen"
)

// Event is one exported calendar occurrence, derived from a
// MealAssignment and never persisted.
type Event struct {
	UID         string
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
	Location    string
}

// ToEvents flattens plans into events, one per assignment occurrence,
// sorted ascending by start timestamp. Slot assignments use their slot
// time; legacy category assignments use the category's canonical time
// and carry the category in summary and description.
func ToEvents(plans []model.MealPlan) []Event {
	var events []Event
	for _, p := range plans {
		for _, slot := range p.Meals.TimeSlots {
			for i, a := range slot.Meals {
				events = append(events, newEvent(p.Date, slot.Time, a, i, ""))
			}
		}
		for _, c := range model.Categories {
			if a := p.Meals.Legacy(c); a != nil {
				events = append(events, newEvent(p.Date, timeutil.LegacyCategoryToTime(c), *a, 0, c))
			}
		}
	}

	// The fixed-width timestamp form makes lexicographic order match
	// chronological order.
	sort.SliceStable(events, func(i, j int) bool {
		return FormatTimestamp(events[i].Start) < FormatTimestamp(events[j].Start)
	})
	return events
}

func newEvent(date, slotTime string, a model.MealAssignment, index int, category model.Category) Event {
	clock := timeutil.ParseTime(slotTime)
	day, _ := time.Parse("2006-01-02", date)
	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour, clock.Minute, 0, 0, time.UTC)

	duration := a.Duration
	if duration <= 0 {
		duration = defaultDuration
	}
	servings := a.Servings
	if servings < 1 {
		servings = 1
	}

	emoji := FallbackEmoji
	title := "Recipe " + a.RecipeID
	if a.Recipe != nil {
		if a.Recipe.Emoji != "" {
			emoji = a.Recipe.Emoji
		}
		if a.Recipe.Title != "" {
			title = a.Recipe.Title
		}
	}

	summary := fmt.Sprintf("%s %s", emoji, title)
	description := fmt.Sprintf("%s\nServings: %d\nDuration: %d minutes", title, servings, duration)
	if category != "" {
		summary += fmt.Sprintf(" (%s)", category)
		description += fmt.Sprintf("\nMeal type: %s", category)
	}

	return Event{
		UID:         fmt.Sprintf("meal-%s-%s-%s-%d@%s", date, strings.ReplaceAll(slotTime, ":", ""), a.RecipeID, index, uidDomain),
		Start:       start,
		End:         start.Add(time.Duration(duration) * time.Minute),
		Summary:     summary,
		Description: description,
		Location:    location,
	}
}

// FormatTimestamp renders a UTC instant in the strict fixed-width
// "YYYYMMDDTHHMMSSZ" form, no milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// Serialize emits the complete iCalendar document for the events. The
// now argument stamps CREATED, LAST-MODIFIED, and DTSTAMP — the only
// fields allowed to vary between exports of identical data. All lines
// are CRLF-terminated.
func Serialize(events []Event, calendarName string, now time.Time) string {
	stamp := FormatTimestamp(now)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Book Cook//Meal Planner//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:" + calendarName,
		"X-WR-TIMEZONE:UTC",
	}

	for _, e := range events {
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+e.UID,
			"DTSTART:"+FormatTimestamp(e.Start),
			"DTEND:"+FormatTimestamp(e.End),
			"SUMMARY:"+e.Summary,
		)
		if e.Description != "" {
			lines = append(lines, "DESCRIPTION:"+escapeText(e.Description))
		}
		if e.Location != "" {
			lines = append(lines, "LOCATION:"+e.Location)
		}
		lines = append(lines,
			"CREATED:"+stamp,
			"LAST-MODIFIED:"+stamp,
			"DTSTAMP:"+stamp,
			"END:VEVENT",
		)
	}

	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, "\r\n") + "\r\n"
}

// escapeText folds real newlines into the literal two-character "\n"
// sequence: every field value must occupy a single logical line.
func escapeText(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
