package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/autonexo/ANX-SchedulingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

// userIDHeader carries the authenticated staff id, set by the API gateway.
const userIDHeader = "X-User-ID"

// Auth requires a valid X-User-ID header and stores the id in the request
// context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(userIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing X-User-ID header")
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, "invalid X-User-ID header")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user id from the context.
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
