package middleware

import (
	"net/http"
	"strings"
)

// The desk API is mutated with GET/POST/PUT/DELETE only, and the auth
// middleware reads the Authorization and X-API-Key headers; preflights must
// clear exactly that surface.
const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization, X-API-Key"
	corsMaxAge       = "86400"
)

// CORS returns middleware that admits the browser frontends listed in
// allowedOrigins. An empty list admits every origin, the local-development
// default. Preflights are answered here and never reach auth or a handler.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				// Responses differ per origin; caches must not mix them up.
				w.Header().Add("Vary", "Origin")

				if originAllowed(allowedOrigins, origin) {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Methods", corsAllowMethods)
					h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
					h.Set("Access-Control-Max-Age", corsMaxAge)
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed reports whether origin is in the allow-list. A "*" entry
// admits everything, as does an empty list.
func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
