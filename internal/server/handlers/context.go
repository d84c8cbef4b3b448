package handlers

import (
	"context"

	"github.com/motahq/mota-sync/internal/models"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// UserIDKey ключ для хранения user_id в контексте
	UserIDKey contextKey = "user_id"
	// TenantIDKey ключ для хранения tenant_id в контексте
	TenantIDKey contextKey = "tenant_id"
	// RequestIDKey ключ для хранения request_id в контексте
	RequestIDKey contextKey = "request_id"
)

// GetUserID извлекает user_id из контекста запроса
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetTenantID извлекает tenant_id из контекста запроса
func GetTenantID(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(string)
	return tenantID, ok
}

// GetRequestID извлекает request_id из контекста запроса
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	return requestID, ok
}

// GetUserContext собирает идентичность запроса, установленную middleware
func GetUserContext(ctx context.Context) (models.UserContext, bool) {
	userID, ok := GetUserID(ctx)
	if !ok {
		return models.UserContext{}, false
	}
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return models.UserContext{}, false
	}
	return models.UserContext{UserID: userID, TenantID: tenantID}, true
}
