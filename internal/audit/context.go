package audit

import "context"

type userKey struct{}

// WithUser binds the acting user's id to the request context, so events
// dispatched anywhere below the auth middleware record who acted.
func WithUser(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFrom returns the acting user's id, or nil on unauthenticated paths.
func UserFrom(ctx context.Context) *uint {
	if id, ok := ctx.Value(userKey{}).(uint); ok {
		return &id
	}
	return nil
}
