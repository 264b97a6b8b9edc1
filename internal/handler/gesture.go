package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bookcook/bookcook/internal/gesture"
)

// GestureHandler classifies a drop payload into the mutation it
// represents. The client performs the resolved mutation (or prompts for
// a time on a needs-time result) with a follow-up call; classification
// itself never mutates anything.
type GestureHandler struct{}

func NewGestureHandler() *GestureHandler {
	return &GestureHandler{}
}

type gestureRequest struct {
	Source gesture.Source `json:"source"`
	Target gesture.Target `json:"target"`
}

func (h *GestureHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Malformed combinations resolve to a no-op, not an error.
	writeJSON(w, http.StatusOK, gesture.Resolve(req.Source, req.Target))
}
