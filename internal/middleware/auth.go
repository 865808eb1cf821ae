package middleware

import (
	"net/http"
	"strings"

	"wyzar-be/internal/user"
	"wyzar-be/internal/utils"
)

// AuthMiddleware resolves a bearer token into user identity on the request
// context. Requests without a valid token pass through anonymously; route
// handlers that need identity use RequireAuth.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.WithUser(r.Context(), claims.UserID, claims.Email, claims.IsSeller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests that did not authenticate.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "authorization required", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
