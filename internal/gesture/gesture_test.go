package gesture

import (
	"testing"

	"github.com/bookcook/bookcook/internal/model"
)

func TestResolveReorderWithinSlot(t *testing.T) {
	src := Source{Date: "2024-01-15", Time: "08:00", Index: 0}
	tgt := Target{Type: TargetMealCard, Date: "2024-01-15", Time: "08:00", Index: 2}

	got := Resolve(src, tgt)
	if got.Kind != KindReorder {
		t.Fatalf("kind = %q, want reorder", got.Kind)
	}
	if got.Date != "2024-01-15" || got.Time != "08:00" || got.OldIndex != 0 || got.NewIndex != 2 {
		t.Errorf("intent = %+v", got)
	}
}

func TestResolveSameCardIsNoop(t *testing.T) {
	src := Source{Date: "2024-01-15", Time: "08:00", Index: 0}
	tgt := Target{Type: TargetMealCard, Date: "2024-01-15", Time: "08:00", Index: 0}

	if got := Resolve(src, tgt); got.Kind != KindNoop {
		t.Errorf("kind = %q, want noop", got.Kind)
	}
}

func TestResolveMoveAcrossSlots(t *testing.T) {
	src := Source{Date: "2024-01-15", Time: "08:00", Index: 1}
	tgt := Target{Type: TargetTimeSlot, Date: "2024-01-16", Time: "18:30"}

	got := Resolve(src, tgt)
	if got.Kind != KindMove {
		t.Fatalf("kind = %q, want move", got.Kind)
	}
	if got.SourceDate != "2024-01-15" || got.SourceTime != "08:00" || got.MealIndex != 1 {
		t.Errorf("source fields = %+v", got)
	}
	if got.Date != "2024-01-16" || got.Time != "18:30" {
		t.Errorf("target fields = %+v", got)
	}
}

// A meal-card in a different slot is a move target, not a reorder target.
func TestResolveMoveOntoCardInOtherSlot(t *testing.T) {
	src := Source{Date: "2024-01-15", Time: "08:00", Index: 0}
	tgt := Target{Type: TargetMealCard, Date: "2024-01-15", Time: "12:30", Index: 0}

	if got := Resolve(src, tgt); got.Kind != KindMove {
		t.Errorf("kind = %q, want move", got.Kind)
	}
}

func TestResolveDegenerateDropIsNoop(t *testing.T) {
	src := Source{Date: "2024-01-15", Time: "08:00", Index: 0}
	tgt := Target{Type: TargetTimeSlot, Date: "2024-01-15", Time: "08:00"}

	if got := Resolve(src, tgt); got.Kind != KindNoop {
		t.Errorf("kind = %q, want noop", got.Kind)
	}
}

func TestResolveAddWithExplicitTime(t *testing.T) {
	src := Source{RecipeID: "r1"}
	tgt := Target{Type: TargetTimeSlot, Date: "2024-01-15", Time: "08:00"}

	got := Resolve(src, tgt)
	if got.Kind != KindAdd {
		t.Fatalf("kind = %q, want add", got.Kind)
	}
	if got.RecipeID != "r1" || got.Servings != 1 || got.Duration != 60 {
		t.Errorf("add defaults = %+v", got)
	}
}

func TestResolveDateOnlyDropNeedsTime(t *testing.T) {
	src := Source{RecipeID: "r1"}
	for _, typ := range []TargetType{TargetMonthDay, TargetWeekDay} {
		got := Resolve(src, Target{Type: typ, Date: "2024-01-15"})
		if got.Kind != KindNeedsTime {
			t.Errorf("%s: kind = %q, want needs-time", typ, got.Kind)
		}
		if got.Date != "2024-01-15" || got.RecipeID != "r1" {
			t.Errorf("%s: intent = %+v", typ, got)
		}
	}
}

func TestResolveLegacyAdd(t *testing.T) {
	src := Source{RecipeID: "r1"}
	tgt := Target{Type: TargetTimeSlot, Date: "2024-01-15", MealType: model.CategoryDinner}

	got := Resolve(src, tgt)
	if got.Kind != KindLegacyAdd {
		t.Fatalf("kind = %q, want legacy-add", got.Kind)
	}
	if got.MealType != model.CategoryDinner || got.Servings != 1 {
		t.Errorf("intent = %+v", got)
	}
}

func TestResolveUnrecognizedIsNoop(t *testing.T) {
	if got := Resolve(Source{}, Target{Type: TargetTimeSlot, Date: "2024-01-15"}); got.Kind != KindNoop {
		t.Errorf("empty source: kind = %q, want noop", got.Kind)
	}
	src := Source{Date: "2024-01-15", Time: "08:00", Index: 0}
	if got := Resolve(src, Target{Type: TargetMonthDay, Date: "2024-01-16"}); got.Kind != KindNoop {
		t.Errorf("existing meal on date-only target: kind = %q, want noop", got.Kind)
	}
}
