package httpx

import "context"

type ctxKey string

// CtxKeyUserID holds the authenticated account id. The authentication
// middleware sets it; rate limiting keys off it.
const CtxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated account id, or "" when the
// request is anonymous.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// ContextWithUserID attaches the authenticated account id to ctx.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}
