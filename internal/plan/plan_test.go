package plan

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/bookcook/bookcook/internal/model"
)

func slotPlan(date string, slots ...model.TimeSlot) model.MealPlan {
	return model.MealPlan{ID: "p-" + date, Date: date, Meals: model.Meals{TimeSlots: slots}}
}

func meal(recipeID string, servings int) model.MealAssignment {
	return model.MealAssignment{RecipeID: recipeID, Servings: servings}
}

func TestMergedSlotsLegacyOnly(t *testing.T) {
	breakfast := meal("r1", 2)
	p := model.MealPlan{Date: "2024-01-15", Meals: model.Meals{Breakfast: &breakfast}}

	got := MergedSlots(p)
	if len(got) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(got))
	}
	if got[0].Time != "08:00" {
		t.Errorf("time = %q, want 08:00", got[0].Time)
	}
	if len(got[0].Meals) != 1 || got[0].Meals[0].RecipeID != "r1" {
		t.Errorf("unexpected meals: %+v", got[0].Meals)
	}
}

func TestMergedSlotsMixedFormats(t *testing.T) {
	dinner := meal("r2", 1)
	p := model.MealPlan{
		Date: "2024-01-15",
		Meals: model.Meals{
			TimeSlots: []model.TimeSlot{{Time: "08:00", Meals: []model.MealAssignment{{RecipeID: "r1", Servings: 2, Duration: 15}}}},
			Dinner:    &dinner,
		},
	}

	got := MergedSlots(p)
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
	if got[0].Time != "08:00" || got[1].Time != "18:30" {
		t.Errorf("slot times = %q, %q; want 08:00, 18:30", got[0].Time, got[1].Time)
	}
	if got[1].Meals[0].RecipeID != "r2" || got[1].Meals[0].Servings != 1 {
		t.Errorf("dinner slot = %+v", got[1].Meals)
	}
}

func TestMergedSlotsLegacyJoinsExistingSlot(t *testing.T) {
	breakfast := meal("r2", 1)
	p := model.MealPlan{
		Date: "2024-01-15",
		Meals: model.Meals{
			TimeSlots: []model.TimeSlot{{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}}},
			Breakfast: &breakfast,
		},
	}

	got := MergedSlots(p)
	if len(got) != 1 {
		t.Fatalf("expected legacy meal merged into existing slot, got %d slots", len(got))
	}
	// Native slot entries take precedence in order; legacy appended after.
	if got[0].Meals[0].RecipeID != "r1" || got[0].Meals[1].RecipeID != "r2" {
		t.Errorf("merge order = %v", got[0].Meals)
	}
}

func TestMergedSlotsIdempotent(t *testing.T) {
	lunch := meal("r3", 1)
	p := model.MealPlan{
		Date: "2024-01-15",
		Meals: model.Meals{
			TimeSlots: []model.TimeSlot{{Time: "18:00", Meals: []model.MealAssignment{meal("r1", 1)}}},
			Lunch:     &lunch,
		},
	}

	first := MergedSlots(p)
	second := MergedSlots(p)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("merge not idempotent: %v vs %v", first, second)
	}
}

func TestMergedSlotsLegacyEquivalentToNative(t *testing.T) {
	breakfast := meal("r1", 1)
	legacy := model.MealPlan{Date: "2024-01-15", Meals: model.Meals{Breakfast: &breakfast}}
	native := slotPlan("2024-01-15", model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}})

	if !reflect.DeepEqual(MergedSlots(legacy), MergedSlots(native)) {
		t.Error("legacy breakfast and native 08:00 slot should merge to the same shape")
	}
}

func TestAddMealCreatesPlanAndSlot(t *testing.T) {
	got, err := AddMeal(nil, "2024-01-15", "08:00", meal("r1", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].ID, "temp-") {
		t.Errorf("synthesized plan id = %q, want temp- prefix", got[0].ID)
	}
	slots := got[0].Meals.TimeSlots
	if len(slots) != 1 || slots[0].Time != "08:00" || slots[0].Meals[0].Time != "08:00" {
		t.Errorf("unexpected slots: %+v", slots)
	}
}

func TestAddMealKeepsSlotsSorted(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "12:30", Meals: []model.MealAssignment{meal("r1", 1)}},
	)}

	plans, err := AddMeal(plans, "2024-01-15", "08:00", meal("r2", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	plans, err = AddMeal(plans, "2024-01-15", "18:30", meal("r3", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	var times []string
	for _, s := range plans[0].Meals.TimeSlots {
		times = append(times, s.Time)
	}
	want := []string{"08:00", "12:30", "18:30"}
	if !reflect.DeepEqual(times, want) {
		t.Errorf("slot order = %v, want %v", times, want)
	}
}

func TestAddMealAppendsToExistingSlot(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}},
	)}

	got, err := AddMeal(plans, "2024-01-15", "08:00", meal("r2", 1))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	slots := got[0].Meals.TimeSlots
	if len(slots) != 1 || len(slots[0].Meals) != 2 {
		t.Fatalf("expected single slot with 2 meals, got %+v", slots)
	}
	if slots[0].Meals[1].RecipeID != "r2" {
		t.Errorf("appended meal = %+v", slots[0].Meals[1])
	}
}

func TestAddMealRejectsInvalid(t *testing.T) {
	if _, err := AddMeal(nil, "2024-01-15", "08:00", meal("", 1)); !errors.Is(err, ErrInvalidMeal) {
		t.Errorf("missing recipe id: err = %v", err)
	}
	if _, err := AddMeal(nil, "2024-01-15", "08:00", meal("r1", 0)); !errors.Is(err, ErrInvalidMeal) {
		t.Errorf("zero servings: err = %v", err)
	}
	if _, err := AddMeal(nil, "2024-01-15", "", meal("r1", 1)); !errors.Is(err, ErrInvalidMeal) {
		t.Errorf("missing time: err = %v", err)
	}
}

func TestAddMealDoesNotMutateInput(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}},
	)}
	before := model.ClonePlans(plans)

	if _, err := AddMeal(plans, "2024-01-15", "08:00", meal("r2", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !reflect.DeepEqual(plans, before) {
		t.Error("input plans were mutated")
	}
}

func TestRemoveMealDeletesEmptySlot(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}},
		model.TimeSlot{Time: "12:30", Meals: []model.MealAssignment{meal("r2", 1)}},
	)}

	got, err := RemoveMeal(plans, "2024-01-15", "08:00", 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	slots := got[0].Meals.TimeSlots
	if len(slots) != 1 || slots[0].Time != "12:30" {
		t.Errorf("expected emptied slot deleted, got %+v", slots)
	}
}

func TestRemoveMealDropsEmptyPlan(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}},
	)}

	got, err := RemoveMeal(plans, "2024-01-15", "08:00", 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected plan dropped after last meal removed, got %+v", got)
	}
}

func TestRemoveMealIndexOutOfRange(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}},
	)}

	if _, err := RemoveMeal(plans, "2024-01-15", "08:00", 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := RemoveMeal(plans, "2024-01-15", "09:00", 0); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("err = %v, want ErrSlotNotFound", err)
	}
	if _, err := RemoveMeal(plans, "2024-01-16", "08:00", 0); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestRemoveMealFromMergedLegacySlot(t *testing.T) {
	dinner := meal("r1", 1)
	plans := []model.MealPlan{{ID: "p1", Date: "2024-01-15", Meals: model.Meals{Dinner: &dinner}}}

	got, err := RemoveMeal(plans, "2024-01-15", "18:30", 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected plan dropped, got %+v", got)
	}
}

func TestMoveMealIsAtomic(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 2)}},
	)}

	got, err := MoveMeal(plans, "2024-01-15", "08:00", 0, "2024-01-16", "18:30")
	if err != nil {
		t.Fatalf("move: %v", err)
	}

	// Present at exactly the destination, absent from the source.
	var found int
	for _, p := range got {
		for _, s := range p.Meals.TimeSlots {
			for _, a := range s.Meals {
				if a.RecipeID == "r1" {
					found++
					if p.Date != "2024-01-16" || s.Time != "18:30" {
						t.Errorf("meal at (%s, %s), want (2024-01-16, 18:30)", p.Date, s.Time)
					}
					if a.Servings != 2 {
						t.Errorf("servings = %d, want 2 preserved across move", a.Servings)
					}
				}
			}
		}
	}
	if found != 1 {
		t.Errorf("meal found %d times, want exactly 1", found)
	}
}

func TestMoveMealSameSlotIsNoop(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1), meal("r2", 1)}},
	)}

	got, err := MoveMeal(plans, "2024-01-15", "08:00", 0, "2024-01-15", "08:00")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !reflect.DeepEqual(got, plans) {
		t.Errorf("same-slot move changed the plans: %+v", got)
	}
}

func TestMoveMealKeepsSlotsSorted(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "12:30", Meals: []model.MealAssignment{meal("r1", 1)}},
		model.TimeSlot{Time: "18:30", Meals: []model.MealAssignment{meal("r2", 1)}},
	)}

	got, err := MoveMeal(plans, "2024-01-15", "18:30", 0, "2024-01-15", "08:00")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	slots := got[0].Meals.TimeSlots
	if slots[0].Time != "08:00" || slots[1].Time != "12:30" {
		t.Errorf("slot order after move: %q, %q", slots[0].Time, slots[1].Time)
	}
}

func TestReorderMealsIsPermutation(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1), meal("r2", 1), meal("r3", 1)}},
	)}

	got, err := ReorderMeals(plans, "2024-01-15", "08:00", 0, 2)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	var ids []string
	for _, a := range got[0].Meals.TimeSlots[0].Meals {
		ids = append(ids, a.RecipeID)
	}
	want := []string{"r2", "r3", "r1"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestReorderMealsOutOfRange(t *testing.T) {
	plans := []model.MealPlan{slotPlan("2024-01-15",
		model.TimeSlot{Time: "08:00", Meals: []model.MealAssignment{meal("r1", 1)}},
	)}

	if _, err := ReorderMeals(plans, "2024-01-15", "08:00", 0, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}
