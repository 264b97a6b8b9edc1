package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bookcook/bookcook/internal/model"
	"github.com/bookcook/bookcook/internal/plan"
	"github.com/bookcook/bookcook/internal/timeutil"
)

// PlanStore is the persistence gateway for meal plans. Each mutation
// loads the affected rows, applies the same patch rules the optimistic
// cache uses, and writes the normalized slot form back — so the stored
// state and a settled cache always agree. Legacy-format rows stay
// readable; they are migrated to slots the first time they are written.
type PlanStore struct {
	db *sql.DB
}

func NewPlanStore(db *sql.DB) *PlanStore {
	return &PlanStore{db: db}
}

// GetByDate returns the plan for a date, or nil if none exists.
func (s *PlanStore) GetByDate(userID int64, date string) (*model.MealPlan, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, date, meals, created_at, updated_at
		 FROM meal_plans WHERE user_id = ? AND date = ?`,
		userID, date,
	)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query meal plan: %w", err)
	}
	return p, nil
}

// FetchRange returns the plans with dates in [start, end] inclusive,
// ordered by date. Date strings compare lexicographically.
func (s *PlanStore) FetchRange(userID int64, start, end string) ([]model.MealPlan, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, date, meals, created_at, updated_at
		 FROM meal_plans
		 WHERE user_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("query meal plans: %w", err)
	}
	defer rows.Close()

	var plans []model.MealPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

// AddMeal appends the assignment to the slot at (date, time), creating
// the plan and slot as needed.
func (s *PlanStore) AddMeal(userID int64, date, slotTime string, a model.MealAssignment) error {
	return s.applyPatch(userID, []string{date}, func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.AddMeal(plans, date, slotTime, a)
	})
}

// AddLegacyMeal stores an assignment addressed by legacy category. The
// write lands in the slot at the category's canonical time; the legacy
// fields are read-compatibility only.
func (s *PlanStore) AddLegacyMeal(userID int64, date string, category model.Category, a model.MealAssignment) error {
	slotTime := timeutil.LegacyCategoryToTime(category)
	return s.applyPatch(userID, []string{date}, func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.AddMeal(plans, date, slotTime, a)
	})
}

// RemoveMeal deletes the assignment at (date, time, index). The plan
// row is deleted when its last assignment goes.
func (s *PlanStore) RemoveMeal(userID int64, date, slotTime string, index int) error {
	return s.applyPatch(userID, []string{date}, func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.RemoveMeal(plans, date, slotTime, index)
	})
}

// MoveMeal relocates one assignment between (date, time) pairs in a
// single transaction so it is never stored at both or at neither.
func (s *PlanStore) MoveMeal(userID int64, srcDate, srcTime string, index int, dstDate, dstTime string) error {
	dates := []string{srcDate}
	if dstDate != srcDate {
		dates = append(dates, dstDate)
	}
	return s.applyPatch(userID, dates, func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.MoveMeal(plans, srcDate, srcTime, index, dstDate, dstTime)
	})
}

// ReorderMeals repositions one assignment within its slot.
func (s *PlanStore) ReorderMeals(userID int64, date, slotTime string, oldIndex, newIndex int) error {
	return s.applyPatch(userID, []string{date}, func(plans []model.MealPlan) ([]model.MealPlan, error) {
		return plan.ReorderMeals(plans, date, slotTime, oldIndex, newIndex)
	})
}

// applyPatch loads the rows for the affected dates, runs the patch, and
// persists the difference (upsert surviving plans, delete emptied ones)
// inside one transaction.
func (s *PlanStore) applyPatch(userID int64, dates []string, patch func([]model.MealPlan) ([]model.MealPlan, error)) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var plans []model.MealPlan
	for _, date := range dates {
		row := tx.QueryRow(
			`SELECT id, user_id, date, meals, created_at, updated_at
			 FROM meal_plans WHERE user_id = ? AND date = ?`,
			userID, date,
		)
		p, err := scanPlan(row)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("query meal plan: %w", err)
		}
		plans = append(plans, *p)
	}

	patched, err := patch(plans)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, date := range dates {
		var after *model.MealPlan
		for i := range patched {
			if patched[i].Date == date {
				after = &patched[i]
				break
			}
		}

		if after == nil {
			if _, err := tx.Exec(`DELETE FROM meal_plans WHERE user_id = ? AND date = ?`, userID, date); err != nil {
				return fmt.Errorf("delete meal plan: %w", err)
			}
			continue
		}

		id := after.ID
		if id == "" || strings.HasPrefix(id, "temp-") {
			id = uuid.NewString()
		}
		doc, err := json.Marshal(after.Meals)
		if err != nil {
			return fmt.Errorf("marshal meals: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO meal_plans (id, user_id, date, meals, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, date) DO UPDATE SET meals = excluded.meals, updated_at = excluded.updated_at`,
			id, userID, date, string(doc), now, now,
		)
		if err != nil {
			return fmt.Errorf("upsert meal plan: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*model.MealPlan, error) {
	var p model.MealPlan
	var doc string
	if err := row.Scan(&p.ID, &p.UserID, &p.Date, &doc, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(doc), &p.Meals); err != nil {
		return nil, fmt.Errorf("unmarshal meals for %s: %w", p.Date, err)
	}
	return &p, nil
}
