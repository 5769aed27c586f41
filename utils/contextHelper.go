package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ContextKeyToken         contextKey = "token"
	ContextKeyUserId        contextKey = "user_id"
	ContextKeyUserName      contextKey = "user_name"
	ContextKeyIsAdmin       contextKey = "is_admin"
	ContextKeyCorrelationId contextKey = "correlation_id"
)

func getString(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func getInt(ctx context.Context, key contextKey) (int, bool) {
	v, ok := ctx.Value(key).(int)
	return v, ok
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return getString(ctx, ContextKeyToken)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return getInt(ctx, ContextKeyUserId)
}

func GetUserNameFromContext(ctx context.Context) (string, bool) {
	return getString(ctx, ContextKeyUserName)
}

func GetIsAdminFromContext(ctx context.Context) (bool, bool) {
	v, ok := ctx.Value(ContextKeyIsAdmin).(bool)
	return v, ok
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return getString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextKeyToken, token)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return context.WithValue(ctx, ContextKeyUserId, userId)
}

func SetUserNameInContext(ctx context.Context, userName string) context.Context {
	return context.WithValue(ctx, ContextKeyUserName, userName)
}

func SetIsAdminInContext(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, ContextKeyIsAdmin, isAdmin)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationId, correlationId)
}

// CorrelationIdFromContextOrNew keeps one correlation id per request chain;
// background workers mint their own.
func CorrelationIdFromContextOrNew(ctx context.Context) string {
	if ctx != nil {
		if v, ok := GetCorrelationIdFromContext(ctx); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
