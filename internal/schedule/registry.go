package schedule

import (
	"log/slog"
	"sync"
)

// Registry hands out the session-scoped controller for each user,
// creating one on first use. Controllers live for the server's
// lifetime; their caches are small (one date window of plans).
type Registry struct {
	gw     Gateway
	logger *slog.Logger

	mu          sync.Mutex
	controllers map[int64]*Controller
}

func NewRegistry(gw Gateway, logger *slog.Logger) *Registry {
	return &Registry{
		gw:          gw,
		logger:      logger,
		controllers: make(map[int64]*Controller),
	}
}

// For returns the controller for the user, creating it if needed.
func (r *Registry) For(userID int64) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.controllers[userID]
	if !ok {
		c = NewController(userID, r.gw, r.logger)
		r.controllers[userID] = c
	}
	return c
}

// InvalidateUser marks the user's cached range stale, if a controller
// exists for them.
func (r *Registry) InvalidateUser(userID int64) {
	r.mu.Lock()
	c := r.controllers[userID]
	r.mu.Unlock()

	if c != nil {
		c.Invalidate()
	}
}
