package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bookcook/bookcook/internal/auth"
	"github.com/bookcook/bookcook/internal/model"
	"github.com/bookcook/bookcook/internal/plan"
	"github.com/bookcook/bookcook/internal/query"
	"github.com/bookcook/bookcook/internal/schedule"
	"github.com/bookcook/bookcook/internal/store"
	ws "github.com/bookcook/bookcook/internal/websocket"
)

// MealPlanHandler serves the calendar's plan reads and the four
// drag-and-drop mutations. Every mutation routes through the user's
// session controller, so the optimistic cache and rollback behavior is
// identical whether a change comes from this device or the API is
// driven directly.
type MealPlanHandler struct {
	registry *schedule.Registry
	recipes  *store.RecipeStore
	hub      *ws.Hub
	logger   *slog.Logger
}

func NewMealPlanHandler(registry *schedule.Registry, recipes *store.RecipeStore, hub *ws.Hub, logger *slog.Logger) *MealPlanHandler {
	return &MealPlanHandler{registry: registry, recipes: recipes, hub: hub, logger: logger}
}

// rangeRequest is the active view window a mutation is keyed by. When
// the client omits it, the week holding the mutated date is used.
type rangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (rr rangeRequest) resolve(date string) schedule.Range {
	if rr.Start != "" && rr.End != "" {
		return schedule.Range{Start: rr.Start, End: rr.End}
	}
	day, err := time.Parse(query.DateLayout, date)
	if err != nil {
		day = time.Now()
	}
	start, end := query.WindowDates(day, query.Week)
	return schedule.Range{Start: start, End: end}
}

// List returns the plans in a window, each normalized to the merged
// slot view and decorated with recipe projections. The window is given
// either as start/end dates or as view+date (day, week, month).
func (h *MealPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		view := query.Granularity(r.URL.Query().Get("view"))
		if view == "" {
			view = query.Week
		}
		dateStr := r.URL.Query().Get("date")
		day, err := time.Parse(query.DateLayout, dateStr)
		if err != nil {
			if dateStr != "" {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			day = time.Now()
		}
		start, end = query.WindowDates(day, view)
	}
	if !validDate(start) || !validDate(end) {
		writeError(w, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
		return
	}

	plans, err := h.registry.For(userID).Plans(schedule.Range{Start: start, End: end})
	if err != nil {
		h.logger.Error("list plans", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load plans")
		return
	}

	for i := range plans {
		plans[i] = plan.Normalize(plans[i])
	}
	if err := h.recipes.Decorate(plans); err != nil {
		h.logger.Error("decorate plans", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load plans")
		return
	}
	if plans == nil {
		plans = []model.MealPlan{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start": start,
		"end":   end,
		"plans": plans,
	})
}

type addMealRequest struct {
	rangeRequest
	Date     string         `json:"date"`
	Time     string         `json:"time"`
	MealType model.Category `json:"meal_type"`
	RecipeID string         `json:"recipe_id"`
	Servings int            `json:"servings"`
	Duration int            `json:"duration"`
}

// AddMeal schedules a recipe at a time slot, or into a legacy category
// bucket when meal_type is given instead of a time.
func (h *MealPlanHandler) AddMeal(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req addMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.RecipeID == "" {
		writeError(w, http.StatusBadRequest, "recipe_id is required")
		return
	}
	if !validDate(req.Date) {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.Time == "" && req.MealType == "" {
		writeError(w, http.StatusBadRequest, "time or meal_type is required")
		return
	}
	if req.Time != "" && !validSlotTime(req.Time) {
		writeError(w, http.StatusBadRequest, "time must be HH:MM")
		return
	}
	if req.Servings < 1 {
		req.Servings = 1
	}

	a := model.MealAssignment{RecipeID: req.RecipeID, Servings: req.Servings, Duration: req.Duration}
	ctl := h.registry.For(userID)
	rng := req.resolve(req.Date)

	var err error
	if req.Time != "" {
		err = ctl.AddMeal(rng, req.Date, req.Time, a)
	} else {
		err = ctl.AddLegacyMeal(rng, req.Date, req.MealType, a)
	}
	if err != nil {
		h.logger.Warn("add meal failed", "user_id", userID, "date", req.Date, "error", err)
		writeError(w, mutationStatus(err), "failed to add meal; the change was reverted")
		return
	}

	h.hub.Broadcast(ws.PlanMessage("add", req.Date))
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

type removeMealRequest struct {
	rangeRequest
	Date  string `json:"date"`
	Time  string `json:"time"`
	Index int    `json:"index"`
}

// RemoveMeal deletes the assignment at (date, time, index).
func (h *MealPlanHandler) RemoveMeal(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req removeMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !validDate(req.Date) || !validSlotTime(req.Time) {
		writeError(w, http.StatusBadRequest, "date and time are required")
		return
	}
	if req.Index < 0 {
		writeError(w, http.StatusBadRequest, "index must be >= 0")
		return
	}

	err := h.registry.For(userID).RemoveMeal(req.resolve(req.Date), req.Date, req.Time, req.Index)
	if err != nil {
		h.logger.Warn("remove meal failed", "user_id", userID, "date", req.Date, "error", err)
		writeError(w, mutationStatus(err), "failed to remove meal; the change was reverted")
		return
	}

	h.hub.Broadcast(ws.PlanMessage("remove", req.Date))
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type moveMealRequest struct {
	rangeRequest
	SourceDate string `json:"source_date"`
	SourceTime string `json:"source_time"`
	Index      int    `json:"index"`
	TargetDate string `json:"target_date"`
	TargetTime string `json:"target_time"`
}

// MoveMeal relocates one assignment between (date, time) pairs.
func (h *MealPlanHandler) MoveMeal(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req moveMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !validDate(req.SourceDate) || !validSlotTime(req.SourceTime) ||
		!validDate(req.TargetDate) || !validSlotTime(req.TargetTime) {
		writeError(w, http.StatusBadRequest, "source and target date/time are required")
		return
	}
	if req.Index < 0 {
		writeError(w, http.StatusBadRequest, "index must be >= 0")
		return
	}

	err := h.registry.For(userID).MoveMeal(req.resolve(req.SourceDate),
		req.SourceDate, req.SourceTime, req.Index, req.TargetDate, req.TargetTime)
	if err != nil {
		h.logger.Warn("move meal failed", "user_id", userID, "error", err)
		writeError(w, mutationStatus(err), "failed to move meal; the change was reverted")
		return
	}

	h.hub.Broadcast(ws.PlanMessage("move", req.TargetDate))
	writeJSON(w, http.StatusOK, map[string]string{"status": "moved"})
}

type reorderMealsRequest struct {
	rangeRequest
	Date     string `json:"date"`
	Time     string `json:"time"`
	OldIndex int    `json:"old_index"`
	NewIndex int    `json:"new_index"`
}

// ReorderMeals changes an assignment's position within its slot.
func (h *MealPlanHandler) ReorderMeals(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req reorderMealsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !validDate(req.Date) || !validSlotTime(req.Time) {
		writeError(w, http.StatusBadRequest, "date and time are required")
		return
	}
	if req.OldIndex < 0 || req.NewIndex < 0 {
		writeError(w, http.StatusBadRequest, "indexes must be >= 0")
		return
	}

	err := h.registry.For(userID).ReorderMeals(req.resolve(req.Date), req.Date, req.Time, req.OldIndex, req.NewIndex)
	if err != nil {
		h.logger.Warn("reorder meals failed", "user_id", userID, "error", err)
		writeError(w, mutationStatus(err), "failed to reorder meals; the change was reverted")
		return
	}

	h.hub.Broadcast(ws.PlanMessage("reorder", req.Date))
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}
