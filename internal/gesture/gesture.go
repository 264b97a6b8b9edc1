// Package gesture classifies drag-and-drop interactions from the
// calendar UI into exactly one mutation intent. Classification failure
// is not an error: unrecognized combinations resolve to a no-op.
package gesture

import "github.com/bookcook/bookcook/internal/model"

// TargetType identifies what kind of surface a drop landed on.
type TargetType string

const (
	TargetTimeSlot TargetType = "time-slot"
	TargetMonthDay TargetType = "month-day"
	TargetWeekDay  TargetType = "week-day"
	TargetMealCard TargetType = "meal-card"
)

// Source describes what is being dragged: either a fresh recipe
// reference (RecipeID set) or an existing assignment addressed by
// (Date, Time, Index).
type Source struct {
	RecipeID string `json:"recipe_id,omitempty"`

	Date  string `json:"date,omitempty"`
	Time  string `json:"time,omitempty"`
	Index int    `json:"index"`
}

// Existing reports whether the source is an assignment already on the
// calendar rather than a fresh recipe reference.
func (s Source) Existing() bool {
	return s.Date != "" && s.Time != ""
}

// Target describes where the drop landed. Time is empty for date-only
// targets; Index is meaningful only for meal-card targets. MealType is
// set when the drop zone is a legacy category bucket.
type Target struct {
	Type     TargetType     `json:"type"`
	Date     string         `json:"date"`
	Time     string         `json:"time,omitempty"`
	Index    int            `json:"index"`
	MealType model.Category `json:"meal_type,omitempty"`
}

// Kind is the classified mutation a gesture represents.
type Kind string

const (
	KindNoop      Kind = "noop"
	KindReorder   Kind = "reorder"
	KindMove      Kind = "move"
	KindAdd       Kind = "add"
	KindNeedsTime Kind = "needs-time"
	KindLegacyAdd Kind = "legacy-add"
)

// Intent is the resolved mutation. Only the fields relevant to Kind are
// populated; KindNeedsTime signals that the caller must prompt for a
// time before issuing the add.
type Intent struct {
	Kind Kind `json:"kind"`

	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	RecipeID string `json:"recipe_id,omitempty"`
	Servings int    `json:"servings,omitempty"`
	Duration int    `json:"duration,omitempty"`

	MealType model.Category `json:"meal_type,omitempty"`

	SourceDate string `json:"source_date,omitempty"`
	SourceTime string `json:"source_time,omitempty"`
	MealIndex  int    `json:"meal_index,omitempty"`

	OldIndex int `json:"old_index,omitempty"`
	NewIndex int `json:"new_index,omitempty"`
}

// Resolve classifies a drop. The checks run in a fixed order because a
// meal-card is simultaneously a valid reorder target and a valid move
// target: same-slot identity must win before cross-slot, or a same-slot
// drop would be misread as a move.
func Resolve(src Source, tgt Target) Intent {
	if src.Existing() {
		sameSlot := src.Date == tgt.Date && src.Time == tgt.Time

		if tgt.Type == TargetMealCard && sameSlot {
			if src.Index == tgt.Index {
				return Intent{Kind: KindNoop}
			}
			return Intent{
				Kind:     KindReorder,
				Date:     tgt.Date,
				Time:     tgt.Time,
				OldIndex: src.Index,
				NewIndex: tgt.Index,
			}
		}

		if (tgt.Type == TargetTimeSlot || tgt.Type == TargetMealCard) && tgt.Time != "" {
			if sameSlot {
				// Degenerate drop back onto the origin slot.
				return Intent{Kind: KindNoop}
			}
			return Intent{
				Kind:       KindMove,
				SourceDate: src.Date,
				SourceTime: src.Time,
				MealIndex:  src.Index,
				Date:       tgt.Date,
				Time:       tgt.Time,
			}
		}

		return Intent{Kind: KindNoop}
	}

	if src.RecipeID == "" {
		return Intent{Kind: KindNoop}
	}

	if tgt.Time != "" {
		return Intent{
			Kind:     KindAdd,
			Date:     tgt.Date,
			Time:     tgt.Time,
			RecipeID: src.RecipeID,
			Servings: 1,
			Duration: 60,
		}
	}

	if tgt.Type == TargetMonthDay || tgt.Type == TargetWeekDay {
		return Intent{Kind: KindNeedsTime, Date: tgt.Date, RecipeID: src.RecipeID}
	}

	if tgt.MealType != "" {
		return Intent{
			Kind:     KindLegacyAdd,
			Date:     tgt.Date,
			RecipeID: src.RecipeID,
			Servings: 1,
			MealType: tgt.MealType,
		}
	}

	return Intent{Kind: KindNoop}
}
