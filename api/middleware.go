package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// CORSMiddleware attaches permissive cross-origin headers to every API
// response and short-circuits preflight requests with 204
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With, *")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Auth validates the bearer token on protected routes and yields the
// authenticated principal to the handler through the request context
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			parts := strings.Fields(r.Header.Get("Authorization"))
			if len(parts) < 2 {
				zap.S().Errorw("unauthorized, missing bearer token",
					"url", r.URL)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "Unauthorized"}`))
				return
			}

			claims, err := ParseToken(parts[1], secret)
			if err != nil {
				zap.S().Errorw("unauthorized, token rejected",
					"url", r.URL)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "Unauthorized"}`))
				return
			}

			ctx := WithPrincipal(r.Context(), Principal{ID: claims.ID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// JSONContentType sets the response content type for every matched route
func JSONContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
