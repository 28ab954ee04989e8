// Package cors adds permissive cross-origin headers to every response.
package cors

import (
	"net/http"
	"strings"
)

// Defaults applied by Middleware.
var (
	AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	AllowedHeaders = []string{"Content-Type", "Authorization", "Mcp-Session-Id", "Mcp-Protocol-Version"}
)

// Middleware sets the CORS headers and answers preflight requests with 204
// before next runs.
func Middleware(next http.Handler) http.Handler {
	methods := strings.Join(AllowedMethods, ", ")
	headers := strings.Join(AllowedHeaders, ", ")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Expose-Headers", "Mcp-Session-Id, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
