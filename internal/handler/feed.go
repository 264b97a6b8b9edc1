package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bookcook/bookcook/internal/auth"
	"github.com/bookcook/bookcook/internal/ical"
	"github.com/bookcook/bookcook/internal/query"
	"github.com/bookcook/bookcook/internal/store"
)

// How far around today the subscription feed reaches. Calendar clients
// poll the URL on their own schedule, so the window slides with each
// fetch.
const (
	feedMonthsBack    = 1
	feedMonthsForward = 3
)

const calendarName = "Meal Plan"

// FeedHandler serves the iCalendar subscription feed and the
// feed-token management endpoints. The feed route is public: the
// capability token in the URL is the whole credential, which is how
// calendar clients expect subscription URLs to work.
type FeedHandler struct {
	plans   *store.PlanStore
	recipes *store.RecipeStore
	tokens  *store.FeedTokenStore
	logger  *slog.Logger
	now     func() time.Time
}

func NewFeedHandler(plans *store.PlanStore, recipes *store.RecipeStore, tokens *store.FeedTokenStore, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{plans: plans, recipes: recipes, tokens: tokens, logger: logger, now: time.Now}
}

// Feed serves GET /calendar/feed/{token}.ics.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSuffix(r.PathValue("token"), ".ics")
	if token == "" {
		writeError(w, http.StatusNotFound, "unknown calendar")
		return
	}

	userID, err := h.tokens.ResolveUser(token)
	if err != nil {
		h.logger.Error("resolve feed token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}
	if userID == 0 {
		writeError(w, http.StatusNotFound, "unknown calendar")
		return
	}

	now := h.now()
	start := now.AddDate(0, -feedMonthsBack, 0).Format(query.DateLayout)
	end := now.AddDate(0, feedMonthsForward, 0).Format(query.DateLayout)

	plans, err := h.plans.FetchRange(userID, start, end)
	if err != nil {
		h.logger.Error("fetch plans for feed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}
	if err := h.recipes.Decorate(plans); err != nil {
		h.logger.Error("decorate plans for feed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar")
		return
	}

	body := ical.Serialize(ical.ToEvents(plans), calendarName, now)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="meal-plan.ics"`)
	w.Write([]byte(body))
}

// GetToken returns the caller's subscription URL token, creating one on
// first use.
func (h *FeedHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	tok, err := h.tokens.Get(userID)
	if err != nil {
		h.logger.Error("get feed token", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load feed token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": tok.Token,
		"path":  "/calendar/feed/" + tok.Token + ".ics",
	})
}

// RotateToken replaces the caller's token, revoking shared URLs.
func (h *FeedHandler) RotateToken(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	tok, err := h.tokens.Rotate(userID)
	if err != nil {
		h.logger.Error("rotate feed token", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rotate feed token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": tok.Token,
		"path":  "/calendar/feed/" + tok.Token + ".ics",
	})
}
