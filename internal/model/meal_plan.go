package model

import "time"

// Category is one of the fixed meal-type buckets that predate the
// time-slot model. Old plans may still carry meals in these fields.
type Category string

const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
	CategorySnack     Category = "snack"
)

// Categories lists the legacy categories in their canonical iteration
// order. Merge and export logic depend on this order being stable.
var Categories = []Category{CategoryBreakfast, CategoryLunch, CategoryDinner, CategorySnack}

// RecipeSummary is the display projection of a recipe attached to an
// assignment on the read path. It is never persisted back.
type RecipeSummary struct {
	Title    string `json:"title"`
	Emoji    string `json:"emoji,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// MealAssignment is one scheduled recipe occurrence. The containing
// TimeSlot (or legacy category field) owns it exclusively; moves are a
// remove-and-insert, never a shared reference.
type MealAssignment struct {
	RecipeID string `json:"recipe_id"`
	Servings int    `json:"servings"`
	Time     string `json:"time,omitempty"`
	Duration int    `json:"duration,omitempty"` // minutes; 60 when zero

	Recipe *RecipeSummary `json:"recipe,omitempty"`
}

// TimeSlot is a single time-of-day bucket within a plan. Time is a
// 24-hour "HH:MM" string and uniquely identifies the slot in its plan.
// The order of Meals is the user-visible ordering and is significant.
type TimeSlot struct {
	Time  string           `json:"time"`
	Meals []MealAssignment `json:"meals"`
}

// Meals holds a plan's assignments in either or both formats: the
// time-slot list used for all new writes, and the four legacy category
// fields that must remain readable indefinitely.
type Meals struct {
	TimeSlots []TimeSlot `json:"time_slots,omitempty"`

	Breakfast *MealAssignment `json:"breakfast,omitempty"`
	Lunch     *MealAssignment `json:"lunch,omitempty"`
	Dinner    *MealAssignment `json:"dinner,omitempty"`
	Snack     *MealAssignment `json:"snack,omitempty"`
}

// Legacy returns the assignment stored in the given legacy category
// field, or nil.
func (m *Meals) Legacy(c Category) *MealAssignment {
	switch c {
	case CategoryBreakfast:
		return m.Breakfast
	case CategoryLunch:
		return m.Lunch
	case CategoryDinner:
		return m.Dinner
	case CategorySnack:
		return m.Snack
	}
	return nil
}

// Empty reports whether the plan holds no assignments in either format.
func (m *Meals) Empty() bool {
	if len(m.TimeSlots) > 0 {
		return false
	}
	return m.Breakfast == nil && m.Lunch == nil && m.Dinner == nil && m.Snack == nil
}

// MealPlan is the set of meal assignments for one user on one calendar
// date. Date is "YYYY-MM-DD" and, together with UserID, is the record's
// identity. Plans are created lazily on first addition and deleted when
// the last assignment is removed.
type MealPlan struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"-"`
	Date      string    `json:"date"`
	Meals     Meals     `json:"meals"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the assignment.
func (a MealAssignment) Clone() MealAssignment {
	if a.Recipe != nil {
		r := *a.Recipe
		a.Recipe = &r
	}
	return a
}

// Clone returns a deep copy of the slot.
func (s TimeSlot) Clone() TimeSlot {
	meals := make([]MealAssignment, len(s.Meals))
	for i, a := range s.Meals {
		meals[i] = a.Clone()
	}
	return TimeSlot{Time: s.Time, Meals: meals}
}

// Clone returns a deep copy of the meals structure.
func (m Meals) Clone() Meals {
	out := Meals{}
	if len(m.TimeSlots) > 0 {
		out.TimeSlots = make([]TimeSlot, len(m.TimeSlots))
		for i, s := range m.TimeSlots {
			out.TimeSlots[i] = s.Clone()
		}
	}
	cloneAssignment := func(a *MealAssignment) *MealAssignment {
		if a == nil {
			return nil
		}
		c := a.Clone()
		return &c
	}
	out.Breakfast = cloneAssignment(m.Breakfast)
	out.Lunch = cloneAssignment(m.Lunch)
	out.Dinner = cloneAssignment(m.Dinner)
	out.Snack = cloneAssignment(m.Snack)
	return out
}

// Clone returns a deep copy of the plan.
func (p MealPlan) Clone() MealPlan {
	p.Meals = p.Meals.Clone()
	return p
}

// ClonePlans returns a deep copy of a plan list. The mutation protocol
// relies on this to take exact snapshots for rollback.
func ClonePlans(plans []MealPlan) []MealPlan {
	if plans == nil {
		return nil
	}
	out := make([]MealPlan, len(plans))
	for i, p := range plans {
		out[i] = p.Clone()
	}
	return out
}
