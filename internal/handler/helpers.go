package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bookcook/bookcook/internal/plan"
	"github.com/bookcook/bookcook/internal/query"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// mutationStatus maps a mutation error to an HTTP status: validation
// failures are the client's fault, anything else means the write failed
// and the optimistic change was rolled back.
func mutationStatus(err error) int {
	switch {
	case errors.Is(err, plan.ErrInvalidMeal), errors.Is(err, plan.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, plan.ErrPlanNotFound), errors.Is(err, plan.ErrSlotNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func validDate(s string) bool {
	_, err := time.Parse(query.DateLayout, s)
	return err == nil
}

func validSlotTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
