package store

import (
	"database/sql"
	"fmt"

	"github.com/bookcook/bookcook/internal/model"
)

// RecipeStore looks up recipe display projections. Recipe content
// itself is owned elsewhere; the planner only needs titles and emoji to
// decorate assignments, and a missing recipe degrades to a generic
// label rather than failing.
type RecipeStore struct {
	db *sql.DB
}

func NewRecipeStore(db *sql.DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// GetSummary returns the display projection for a recipe id, or nil if
// the recipe is unknown.
func (s *RecipeStore) GetSummary(id string) (*model.RecipeSummary, error) {
	var r model.RecipeSummary
	err := s.db.QueryRow(
		`SELECT title, emoji, image_url FROM recipes WHERE id = ?`, id,
	).Scan(&r.Title, &r.Emoji, &r.ImageURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query recipe: %w", err)
	}
	return &r, nil
}

// Put inserts or updates a recipe projection.
func (s *RecipeStore) Put(id, title, emoji, imageURL string) error {
	_, err := s.db.Exec(
		`INSERT INTO recipes (id, title, emoji, image_url) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, emoji = excluded.emoji, image_url = excluded.image_url`,
		id, title, emoji, imageURL,
	)
	if err != nil {
		return fmt.Errorf("upsert recipe: %w", err)
	}
	return nil
}

// Decorate attaches recipe projections to every assignment in the
// plans, in place. Unknown recipes are left bare for the display
// fallback to handle.
func (s *RecipeStore) Decorate(plans []model.MealPlan) error {
	summaries := make(map[string]*model.RecipeSummary)
	lookup := func(id string) (*model.RecipeSummary, error) {
		if r, ok := summaries[id]; ok {
			return r, nil
		}
		r, err := s.GetSummary(id)
		if err != nil {
			return nil, err
		}
		summaries[id] = r
		return r, nil
	}

	for pi := range plans {
		slots := plans[pi].Meals.TimeSlots
		for si := range slots {
			for mi := range slots[si].Meals {
				r, err := lookup(slots[si].Meals[mi].RecipeID)
				if err != nil {
					return err
				}
				slots[si].Meals[mi].Recipe = r
			}
		}
		for _, c := range model.Categories {
			if a := plans[pi].Meals.Legacy(c); a != nil {
				r, err := lookup(a.RecipeID)
				if err != nil {
					return err
				}
				a.Recipe = r
			}
		}
	}
	return nil
}
