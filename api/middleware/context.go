package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxUserID    contextKey = "user_id"
	ctxLanguage  contextKey = "language"
)

// SessionIDFromContext returns the anonymous cart session of the request.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext returns the signed-in shopper, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	v, ok := ctx.Value(ctxUserID).(uuid.UUID)
	return v, ok && v != uuid.Nil
}

func LanguageFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxLanguage).(string); ok {
		return v
	}
	return ""
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

// WithUserID injects the authenticated shopper into the context.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

func WithLanguage(ctx context.Context, lang string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLanguage, lang)
}
