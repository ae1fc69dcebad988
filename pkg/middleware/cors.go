package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORS echoes allowed origins back with the configured methods and headers.
// A preflight (OPTIONS carrying Access-Control-Request-Method) from an allowed
// origin is answered with 204 and never reaches next.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled || len(cfg.Origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	grant := map[string]string{
		"Access-Control-Allow-Methods": strings.Join(cfg.AllowedMethods, ", "),
		"Access-Control-Allow-Headers": strings.Join(cfg.AllowedHeaders, ", "),
	}
	if cfg.AllowCredentials {
		grant["Access-Control-Allow-Credentials"] = "true"
	}
	if cfg.MaxAge > 0 {
		grant["Access-Control-Max-Age"] = strconv.Itoa(cfg.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			origin := r.Header.Get("Origin")
			if !cfg.allows(origin) {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			for k, v := range grant {
				h.Set(k, v)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
