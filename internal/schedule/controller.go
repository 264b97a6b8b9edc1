// Package schedule implements the optimistic mutation protocol for
// meal-plan ranges. A Controller owns one cached range of plans per
// user session: every mutation snapshots the cache, applies the patch
// locally so the UI sees the change immediately, issues the gateway
// write, rolls back to the exact snapshot on failure, and marks the
// range stale once the write settles so the next read re-synchronizes.
package schedule

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bookcook/bookcook/internal/model"
	"github.com/bookcook/bookcook/internal/plan"
	"github.com/bookcook/bookcook/internal/timeutil"
)

// Gateway is the persistence collaborator the controller reconciles
// against. Implementations must treat every call as an independent
// write; the controller never retries.
type Gateway interface {
	FetchRange(userID int64, startDate, endDate string) ([]model.MealPlan, error)
	AddMeal(userID int64, date, slotTime string, a model.MealAssignment) error
	AddLegacyMeal(userID int64, date string, category model.Category, a model.MealAssignment) error
	RemoveMeal(userID int64, date, slotTime string, index int) error
	MoveMeal(userID int64, srcDate, srcTime string, index int, dstDate, dstTime string) error
	ReorderMeals(userID int64, date, slotTime string, oldIndex, newIndex int) error
}

// Range is the inclusive date window a cache value is keyed by.
type Range struct {
	Start string
	End   string
}

// Controller applies calendar mutations for one user with
// perceived-immediate feedback. Mutations are deliberately not queued
// or serialized against each other: two in-flight mutations each
// snapshot and patch independently, and a failed one rolls back
// last-writer-wins. The settle-time invalidation is what guarantees
// eventual convergence with the stored state.
type Controller struct {
	userID int64
	gw     Gateway
	logger *slog.Logger

	mu          sync.Mutex
	activeRange Range
	cache       []model.MealPlan
	valid       bool
}

func NewController(userID int64, gw Gateway, logger *slog.Logger) *Controller {
	return &Controller{userID: userID, gw: gw, logger: logger}
}

// Plans returns the plans for the range, serving the cached value when
// it is still valid for the same window and fetching otherwise.
func (c *Controller) Plans(r Range) ([]model.MealPlan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLocked(r); err != nil {
		return nil, err
	}
	return model.ClonePlans(c.cache), nil
}

// Cached returns the currently visible cache value without consulting
// the gateway, even when the range has been invalidated. Rendering
// code reads this freely between mutations.
func (c *Controller) Cached() []model.MealPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.ClonePlans(c.cache)
}

// Invalidate marks the cached range stale so the next read refetches.
// Handlers call it when another session mutates the same user's plans.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

// AddMeal schedules a recipe at (date, time) within the active range.
func (c *Controller) AddMeal(r Range, date, slotTime string, a model.MealAssignment) error {
	patch := func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.AddMeal(plans, date, slotTime, a)
	}
	write := func() error {
		return c.gw.AddMeal(c.userID, date, slotTime, a)
	}
	return c.mutate("add meal", r, patch, write)
}

// AddLegacyMeal schedules a recipe into a legacy category bucket. The
// local patch lands in the slot at the category's canonical time, which
// is also where the stored record ends up.
func (c *Controller) AddLegacyMeal(r Range, date string, category model.Category, a model.MealAssignment) error {
	slotTime := timeutil.LegacyCategoryToTime(category)
	patch := func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.AddMeal(plans, date, slotTime, a)
	}
	write := func() error {
		return c.gw.AddLegacyMeal(c.userID, date, category, a)
	}
	return c.mutate("add legacy meal", r, patch, write)
}

// RemoveMeal deletes the assignment at (date, time, index).
func (c *Controller) RemoveMeal(r Range, date, slotTime string, index int) error {
	patch := func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.RemoveMeal(plans, date, slotTime, index)
	}
	write := func() error {
		return c.gw.RemoveMeal(c.userID, date, slotTime, index)
	}
	return c.mutate("remove meal", r, patch, write)
}

// MoveMeal relocates one assignment between (date, time) pairs.
func (c *Controller) MoveMeal(r Range, srcDate, srcTime string, index int, dstDate, dstTime string) error {
	if srcDate == dstDate && srcTime == dstTime {
		return nil
	}
	patch := func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.MoveMeal(plans, srcDate, srcTime, index, dstDate, dstTime)
	}
	write := func() error {
		return c.gw.MoveMeal(c.userID, srcDate, srcTime, index, dstDate, dstTime)
	}
	return c.mutate("move meal", r, patch, write)
}

// ReorderMeals changes the position of one assignment within its slot.
func (c *Controller) ReorderMeals(r Range, date, slotTime string, oldIndex, newIndex int) error {
	if oldIndex == newIndex {
		return nil
	}
	patch := func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.ReorderMeals(plans, date, slotTime, oldIndex, newIndex)
	}
	write := func() error {
		return c.gw.ReorderMeals(c.userID, date, slotTime, oldIndex, newIndex)
	}
	return c.mutate("reorder meals", r, patch, write)
}

// mutate runs the snapshot / patch / write / reconcile cycle. The patch
// is validated and installed before the gateway write is issued; a
// rejected patch leaves the cache untouched. The write runs outside the
// lock so concurrent mutations race exactly as documented.
func (c *Controller) mutate(op string, r Range, patch func([]model.MealPlan) ([]model.MealPlan, error), write func() error) error {
	c.mu.Lock()
	if err := c.ensureLocked(r); err != nil {
		c.mu.Unlock()
		return err
	}

	snapshot := model.ClonePlans(c.cache)
	patched, err := patch(c.cache)
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%s: %w", op, err)
	}
	c.cache = patched
	c.mu.Unlock()

	writeErr := write()

	c.mu.Lock()
	if writeErr != nil {
		// Last-writer-wins rollback to the exact pre-mutation value.
		c.cache = snapshot
	}
	c.valid = false
	c.mu.Unlock()

	if writeErr != nil {
		c.logger.Warn("mutation rolled back", "op", op, "user_id", c.userID, "error", writeErr)
		return fmt.Errorf("%s: %w", op, writeErr)
	}
	return nil
}

// ensureLocked loads the cache for the range when it is stale or keyed
// to a different window. Caller holds c.mu.
func (c *Controller) ensureLocked(r Range) error {
	if c.valid && c.activeRange == r {
		return nil
	}
	plans, err := c.gw.FetchRange(c.userID, r.Start, r.End)
	if err != nil {
		return fmt.Errorf("fetch plans %s..%s: %w", r.Start, r.End, err)
	}
	c.cache = plans
	c.activeRange = r
	c.valid = true
	return nil
}
