package middleware

import "net/http"

// Origins is a CORS allow list. A "*" entry admits every origin.
type Origins struct {
	any   bool
	allow map[string]struct{}
}

// NewOrigins builds an allow list from configured origins.
func NewOrigins(origins []string) Origins {
	o := Origins{allow: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		if origin == "*" {
			o.any = true
			continue
		}
		o.allow[origin] = struct{}{}
	}
	return o
}

// Allowed reports whether origin may call the API.
func (o Origins) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if o.any {
		return true
	}
	_, ok := o.allow[origin]
	return ok
}

// CheckOrigin fits websocket.Upgrader. Same-origin and non-browser clients
// send no Origin header and are accepted.
func (o Origins) CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || o.Allowed(origin)
}

// CORS echoes allowed origins and answers preflight requests.
func CORS(origins Origins) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			h := w.Header()
			h.Add("Vary", "Origin")
			if origins.Allowed(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
				h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
				h.Set("Access-Control-Expose-Headers", "X-Request-ID, Retry-After, Content-Disposition")
			}
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
