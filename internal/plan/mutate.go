package plan

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bookcook/bookcook/internal/model"
)

var (
	ErrPlanNotFound    = errors.New("no plan for date")
	ErrSlotNotFound    = errors.New("no slot at time")
	ErrIndexOutOfRange = errors.New("meal index out of range")
	ErrInvalidMeal     = errors.New("invalid meal assignment")
)

// AddMeal returns a new plan list with the assignment appended to the
// slot at (date, time). A plan is synthesized with a temporary id when
// the date has none yet; a new slot is created and the slot list
// re-sorted when no slot exists at that time. The input is not mutated.
func AddMeal(plans []model.MealPlan, date, slotTime string, a model.MealAssignment) ([]model.MealPlan, error) {
	if a.RecipeID == "" {
		return nil, fmt.Errorf("%w: missing recipe id", ErrInvalidMeal)
	}
	if a.Servings < 1 {
		return nil, fmt.Errorf("%w: servings must be >= 1", ErrInvalidMeal)
	}
	if date == "" || slotTime == "" {
		return nil, fmt.Errorf("%w: missing date or time", ErrInvalidMeal)
	}

	out := model.ClonePlans(plans)
	idx := planIndex(out, date)
	if idx < 0 {
		out = append(out, model.MealPlan{
			ID:   "temp-" + uuid.NewString(),
			Date: date,
		})
		idx = len(out) - 1
		sortPlans(out)
		idx = planIndex(out, date)
	}

	p := Normalize(out[idx])
	a = a.Clone()
	a.Time = slotTime
	si := slotIndex(p.Meals.TimeSlots, slotTime)
	if si < 0 {
		p.Meals.TimeSlots = append(p.Meals.TimeSlots, model.TimeSlot{Time: slotTime})
		si = len(p.Meals.TimeSlots) - 1
	}
	p.Meals.TimeSlots[si].Meals = append(p.Meals.TimeSlots[si].Meals, a)
	sortSlots(p.Meals.TimeSlots)
	out[idx] = p
	return out, nil
}

// RemoveMeal returns a new plan list with the assignment at
// (date, time, index) spliced out. A slot emptied by the removal is
// deleted, and a plan emptied of its last slot is dropped entirely.
func RemoveMeal(plans []model.MealPlan, date, slotTime string, index int) ([]model.MealPlan, error) {
	out := model.ClonePlans(plans)
	idx := planIndex(out, date)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, date)
	}

	p := Normalize(out[idx])
	si := slotIndex(p.Meals.TimeSlots, slotTime)
	if si < 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrSlotNotFound, date, slotTime)
	}
	slot := &p.Meals.TimeSlots[si]
	if index < 0 || index >= len(slot.Meals) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(slot.Meals))
	}

	slot.Meals = append(slot.Meals[:index], slot.Meals[index+1:]...)
	if len(slot.Meals) == 0 {
		p.Meals.TimeSlots = append(p.Meals.TimeSlots[:si], p.Meals.TimeSlots[si+1:]...)
	}

	if p.Meals.Empty() {
		out = append(out[:idx], out[idx+1:]...)
		return out, nil
	}
	out[idx] = p
	return out, nil
}

// MoveMeal atomically relocates one assignment between (date, time)
// pairs: removal from the source and insertion at the destination
// happen in one patch, so the assignment is never present at both or
// at neither. Moving onto the identical source slot is a no-op.
func MoveMeal(plans []model.MealPlan, srcDate, srcTime string, index int, dstDate, dstTime string) ([]model.MealPlan, error) {
	if srcDate == dstDate && srcTime == dstTime {
		return model.ClonePlans(plans), nil
	}

	out := model.ClonePlans(plans)
	si := planIndex(out, srcDate)
	if si < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, srcDate)
	}
	src := Normalize(out[si])
	ssi := slotIndex(src.Meals.TimeSlots, srcTime)
	if ssi < 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrSlotNotFound, srcDate, srcTime)
	}
	if index < 0 || index >= len(src.Meals.TimeSlots[ssi].Meals) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(src.Meals.TimeSlots[ssi].Meals))
	}
	moved := src.Meals.TimeSlots[ssi].Meals[index]

	out, err := RemoveMeal(out, srcDate, srcTime, index)
	if err != nil {
		return nil, err
	}
	return AddMeal(out, dstDate, dstTime, moved)
}

// ReorderMeals returns a new plan list with the assignment at oldIndex
// moved to newIndex within the slot at (date, time). The multiset of
// assignments is unchanged; only their order differs.
func ReorderMeals(plans []model.MealPlan, date, slotTime string, oldIndex, newIndex int) ([]model.MealPlan, error) {
	out := model.ClonePlans(plans)
	idx := planIndex(out, date)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, date)
	}

	p := Normalize(out[idx])
	si := slotIndex(p.Meals.TimeSlots, slotTime)
	if si < 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrSlotNotFound, date, slotTime)
	}
	meals := p.Meals.TimeSlots[si].Meals
	if oldIndex < 0 || oldIndex >= len(meals) || newIndex < 0 || newIndex >= len(meals) {
		return nil, fmt.Errorf("%w: %d -> %d of %d", ErrIndexOutOfRange, oldIndex, newIndex, len(meals))
	}
	if oldIndex == newIndex {
		return out, nil
	}

	moved := meals[oldIndex]
	meals = append(meals[:oldIndex], meals[oldIndex+1:]...)
	meals = append(meals[:newIndex], append([]model.MealAssignment{moved}, meals[newIndex:]...)...)
	p.Meals.TimeSlots[si].Meals = meals
	out[idx] = p
	return out, nil
}

func planIndex(plans []model.MealPlan, date string) int {
	for i, p := range plans {
		if p.Date == date {
			return i
		}
	}
	return -1
}

func sortPlans(plans []model.MealPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Date < plans[j].Date
	})
}
