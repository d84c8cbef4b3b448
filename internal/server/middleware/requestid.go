package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/motahq/mota-sync/internal/server/handlers"
)

// HeaderRequestID заголовок сквозного идентификатора запроса
const HeaderRequestID = "X-Request-Id"

// RequestIDMiddleware создает middleware, присваивающее каждому запросу
// сквозной идентификатор. Пришедший от gateway идентификатор сохраняется,
// иначе генерируется новый.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), handlers.RequestIDKey, requestID)
			w.Header().Set(HeaderRequestID, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
