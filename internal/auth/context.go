package auth

import "context"

type userContextKey struct{}

// ContextWithUser attaches the authenticated user to the context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the authenticated user from the context.
func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(userContextKey{}).(*User)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return "", false
	}
	return user.ID, true
}
