package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/codex-k8s/astro-mcp-server/internal/protocol"
)

// UnauthorizedMessage is the body text of every 401 response.
const UnauthorizedMessage = "Unauthorized: missing or invalid Bearer token"

const bearerPrefix = "Bearer "

// Authenticator checks bearer credentials against a single shared secret.
type Authenticator struct {
	secret []byte
	logger *slog.Logger
	sample *rate.Sometimes
}

// New returns an Authenticator for secret. An empty secret authorizes nothing.
func New(secret string, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		logger: logger,
		sample: &rate.Sometimes{First: 5, Interval: 10 * time.Second},
	}
}

// ParseBearer extracts the token from an Authorization header value.
// The "Bearer " prefix is matched case-sensitively.
func ParseBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

// Check reports whether token equals the shared secret.
func (a *Authenticator) Check(token string) bool {
	if a == nil || len(a.secret) == 0 || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), a.secret) == 1
}

// Authorize reports whether an Authorization header carries the shared secret.
func (a *Authenticator) Authorize(header string) bool {
	token, ok := ParseBearer(header)
	if !ok {
		return false
	}
	return a.Check(token)
}

// Middleware rejects requests without a valid bearer token before next runs.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !a.Authorize(header) {
			a.logRejected(r, header != "")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(protocol.ErrorResponse{Error: UnauthorizedMessage})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) logRejected(r *http.Request, hasHeader bool) {
	if a.logger == nil {
		return
	}
	a.sample.Do(func() {
		a.logger.Warn("unauthorized request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"has_header", hasHeader,
		)
	})
}
