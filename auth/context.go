package auth

import "context"

type contextKey string

const (
	adminContextKey     contextKey = "admin"
	editTokenContextKey contextKey = "editToken"
)

// WithAdmin marks ctx as admin-authorized.
func WithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminContextKey, true)
}

// IsAdmin reports whether the admin guard approved the request.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(adminContextKey).(bool)
	return v
}

// WithEditToken stores the bearer credential presented for a comment
// mutation. It is not validated here.
func WithEditToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, editTokenContextKey, token)
}

// EditTokenFromContext returns the presented edit token, if any.
func EditTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(editTokenContextKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
