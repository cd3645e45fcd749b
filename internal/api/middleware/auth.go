package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
)

const (
	// HeaderUserID заголовок с ID пользователя, проставляется API gateway после аутентификации
	HeaderUserID = "X-User-ID"

	msgMissingUserID = "отсутствует ID пользователя"
	msgInvalidUserID = "некорректный ID пользователя"
)

type contextKey int

const (
	userIDKey contextKey = iota
	requestIDKey
)

// Auth требует заголовок X-User-ID и кладет ID пользователя в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderUserID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID возвращает контекст с ID пользователя
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
