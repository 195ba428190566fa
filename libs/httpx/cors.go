package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy lists what cross-origin callers are allowed to do. An empty
// AllowedOrigins disables the middleware entirely.
type CORSPolicy struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

func WithCORS(policy CORSPolicy) Middleware {
	origins := trimmed(policy.AllowedOrigins)
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	methods := strings.Join(trimmed(policy.AllowedMethods), ", ")
	headers := strings.Join(trimmed(policy.AllowedHeaders), ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allow := policy.allowedOrigin(origin, origins)
			if allow == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allow)
			if policy.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}
			if headers != "" {
				h.Set("Access-Control-Allow-Headers", headers)
			}
			if secs := int(policy.MaxAge.Seconds()); secs > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(secs))
			}
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p CORSPolicy) allowedOrigin(origin string, origins []string) string {
	if origin == "" {
		return ""
	}
	for _, candidate := range origins {
		if candidate == "*" {
			// With credentials the wildcard must be echoed as the
			// concrete origin.
			if p.AllowCredentials {
				return origin
			}
			return "*"
		}
		if strings.EqualFold(candidate, origin) {
			return origin
		}
	}
	return ""
}

func trimmed(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
