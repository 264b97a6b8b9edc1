package auth

import "context"

type contextKey struct{}

// AuthContext carries the resolved identity for a request. The planner
// treats authentication as a collaborator: all it needs downstream is
// the user id.
type AuthContext struct {
	UserID    int64
	SessionID int64
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.UserID
}
