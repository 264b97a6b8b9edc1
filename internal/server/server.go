package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bookcook/bookcook/internal/handler"
	"github.com/bookcook/bookcook/internal/middleware"
	"github.com/bookcook/bookcook/internal/schedule"
	"github.com/bookcook/bookcook/internal/store"
	ws "github.com/bookcook/bookcook/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	mealPlanH    *handler.MealPlanHandler
	gestureH     *handler.GestureHandler
	feedH        *handler.FeedHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	planStore := store.NewPlanStore(db)
	recipeStore := store.NewRecipeStore(db)
	sessionStore := store.NewSessionStore(db)
	feedTokenStore := store.NewFeedTokenStore(db)

	registry := schedule.NewRegistry(planStore, logger.With("component", "schedule"))

	return &Server{
		db:           db,
		hub:          hub,
		mealPlanH:    handler.NewMealPlanHandler(registry, recipeStore, hub, logger.With("component", "meal_plan")),
		gestureH:     handler.NewGestureHandler(),
		feedH:        handler.NewFeedHandler(planStore, recipeStore, feedTokenStore, logger.With("component", "feed")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes. The feed is gated by its capability token and
	// rate-limited since calendar clients poll it unauthenticated.
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /calendar/feed/{token}", s.rateLimitedHandler(s.feedH.Feed))

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 30, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Meal plan API routes
	mux.HandleFunc("GET /api/plans", s.mealPlanH.List)
	mux.HandleFunc("POST /api/plans/meals", s.mealPlanH.AddMeal)
	mux.HandleFunc("DELETE /api/plans/meals", s.mealPlanH.RemoveMeal)
	mux.HandleFunc("POST /api/plans/meals/move", s.mealPlanH.MoveMeal)
	mux.HandleFunc("POST /api/plans/meals/reorder", s.mealPlanH.ReorderMeals)

	// Drop classification for the drag-and-drop UI
	mux.HandleFunc("POST /api/gesture/resolve", s.gestureH.Resolve)

	// Calendar subscription token management
	mux.HandleFunc("GET /api/feed-token", s.feedH.GetToken)
	mux.HandleFunc("POST /api/feed-token", s.feedH.RotateToken)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
