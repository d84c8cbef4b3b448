package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/motahq/mota-sync/internal/server/handlers"
)

// Заголовки идентичности, проставляемые API gateway перед BFF
const (
	HeaderUserID   = "X-User-Id"
	HeaderTenantID = "X-Tenant-Id"
)

// IdentityMiddleware создает middleware, извлекающее идентичность запроса
// из заголовков gateway. Аутентификацию выполняет gateway, BFF доверяет
// заголовкам, но требует их присутствия.
func IdentityMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(HeaderUserID)
			if userID == "" {
				logger.Warn("Missing user identity header", "path", r.URL.Path)
				http.Error(w, "Unauthorized: missing identity", http.StatusUnauthorized)
				return
			}

			tenantID := r.Header.Get(HeaderTenantID)
			if tenantID == "" {
				logger.Warn("Missing tenant identity header", "path", r.URL.Path, "user_id", userID)
				http.Error(w, "Unauthorized: missing tenant", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), handlers.UserIDKey, userID)
			ctx = context.WithValue(ctx, handlers.TenantIDKey, tenantID)

			logger.Debug("Request identity resolved", "user_id", userID, "tenant_id", tenantID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
