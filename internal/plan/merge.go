// Package plan implements the slot-level operations on meal plans: the
// merged view over the legacy and time-slot formats, and the pure patch
// operations (add, remove, move, reorder) the mutation protocol applies
// to cached plan ranges.
package plan

import (
	"sort"

	"github.com/bookcook/bookcook/internal/model"
	"github.com/bookcook/bookcook/internal/timeutil"
)

// MergedSlots returns a unified, time-ordered view of a plan regardless
// of which format(s) it contains. Slots from the native list keep their
// identity; each legacy assignment is appended into the slot at its
// canonical time, creating one if absent. The merge is read-only and
// idempotent.
func MergedSlots(p model.MealPlan) []model.TimeSlot {
	slots := make([]model.TimeSlot, len(p.Meals.TimeSlots))
	for i, s := range p.Meals.TimeSlots {
		slots[i] = s.Clone()
	}

	for _, c := range model.Categories {
		a := p.Meals.Legacy(c)
		if a == nil {
			continue
		}
		t := timeutil.LegacyCategoryToTime(c)
		idx := slotIndex(slots, t)
		if idx < 0 {
			slots = append(slots, model.TimeSlot{Time: t})
			idx = len(slots) - 1
		}
		slots[idx].Meals = append(slots[idx].Meals, a.Clone())
	}

	sortSlots(slots)
	return slots
}

// Normalize rewrites a plan's meals into the slot-only representation.
// Mutation code always normalizes first so it never branches on format;
// the write path persists the normalized form (new writes are always
// slot-based).
func Normalize(p model.MealPlan) model.MealPlan {
	p.Meals = model.Meals{TimeSlots: MergedSlots(p)}
	return p
}

func slotIndex(slots []model.TimeSlot, time string) int {
	for i, s := range slots {
		if s.Time == time {
			return i
		}
	}
	return -1
}

func sortSlots(slots []model.TimeSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		return timeutil.MinutesSinceMidnight(slots[i].Time) < timeutil.MinutesSinceMidnight(slots[j].Time)
	})
}
