package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"kanban-board/logging"
	"kanban-board/services"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// TokenValidator is the part of the token service the auth middleware needs.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*services.Claims, error)
}

// JWTAuthMiddleware admits a request only when it carries a valid bearer
// token, and stores the token's claims in the request context. A missing
// token is answered with 401, an unusable one with 400.
func JWTAuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r.Header.Get("Authorization"))
			if tokenStr == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_TOKEN, Description: No token provided for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Access denied. No token provided.", http.StatusUnauthorized)
				return
			}
			logging.Logger.Debugf("Event ID: JWT_AUTH_TOKEN_EXTRACTED, Description: Extracted token (truncated) for request to %s %s: %s...", r.Method, r.URL.Path, tokenStr[:min(len(tokenStr), 10)])

			claims, err := tokens.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Invalid token.", http.StatusBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by JWTAuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok && claims != nil
}

// bearerToken returns the credential that follows the scheme in an
// Authorization header value such as "Bearer <token>".
func bearerToken(header string) string {
	_, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

// CORS answers preflight requests and decorates every response with the
// allowed origin, methods and headers.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request once the handler returns and
// echoes the request id back to the client.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		entry := logging.Logger.WithFields(logrus.Fields{
			"requestId": requestID,
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    rec.status,
			"duration":  time.Since(start).String(),
		})
		if rec.status >= http.StatusInternalServerError {
			entry.Errorf("Event ID: HTTP_REQUEST_FAILED, Description: %s %s", r.Method, r.URL.Path)
			return
		}
		entry.Infof("Event ID: HTTP_REQUEST, Description: %s %s", r.Method, r.URL.Path)
	})
}
