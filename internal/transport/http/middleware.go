package http

import (
	"context"
	"encoding/json"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/product-catalog-api/internal/auth"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"github.com/kahvecikaan/product-catalog-api/internal/metrics"
	"net/http"
	"strings"
)

type contextKey string

// ContextKeyProduct holds the decoded and validated request body
const ContextKeyProduct contextKey = "product"

// Middleware struct holds dependencies for middleware functions
type Middleware struct {
	Logger    hclog.Logger
	Validator *domain.Validation
	Tokens    *auth.TokenManager
	Limiter   *RateLimiter
}

// CORSConfig holds configuration for CORS middleware
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	MaxAge           int  // Cache preflight requests
	AllowCredentials bool // Allow credentials like cookies
}

func DefaultCORSConfig() *CORSConfig {
	return &CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:           86400, // 24 hours
		AllowCredentials: true,
	}
}

// CORS returns a gorilla/handlers CORS wrapper for the configuration.
// It sits outside the router so preflight requests never need a route.
func (c *CORSConfig) CORS() func(http.Handler) http.Handler {
	opts := []handlers.CORSOption{
		handlers.AllowedOrigins(c.AllowedOrigins),
		handlers.AllowedMethods(c.AllowedMethods),
		handlers.AllowedHeaders(c.AllowedHeaders),
		handlers.MaxAge(c.MaxAge),
	}
	if c.AllowCredentials {
		opts = append(opts, handlers.AllowCredentials())
	}
	return handlers.CORS(opts...)
}

// NewMiddleware creates a new Middleware instance. limiter may be nil.
func NewMiddleware(
	logger hclog.Logger,
	validator *domain.Validation,
	tokens *auth.TokenManager,
	limiter *RateLimiter) *Middleware {
	return &Middleware{
		Logger:    logger,
		Validator: validator,
		Tokens:    tokens,
		Limiter:   limiter,
	}
}

// ContentTypeMiddleware sets the Content-Type header to application/json
func (m *Middleware) ContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware logs the incoming requests and responses
func (m *Middleware) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		m.Logger.Info("Incoming request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
		)

		// Add the request ID to the response header
		w.Header().Set("X-Request-ID", requestID)

		// httpsnoop keeps the writer's optional interfaces, which the websocket upgrade needs
		stats := httpsnoop.CaptureMetrics(next, w, r)

		m.Logger.Info("Completed request",
			"method", r.Method,
			"url", r.URL.Path,
			"request_id", requestID,
			"status", stats.Code,
			"duration", stats.Duration,
		)
	})
}

// MetricsMiddleware records request counts and latencies per route template
func (m *Middleware) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := metrics.RequestStarted()
		defer done()

		stats := httpsnoop.CaptureMetrics(next, w, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		metrics.ObserveRequest(r.Method, path, stats.Code, stats.Duration)
	})
}

// RateLimitMiddleware rejects clients that exceed the configured request rate.
// It is a pass-through when no limiter is configured.
func (m *Middleware) RateLimitMiddleware(next http.Handler) http.Handler {
	if m.Limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !m.Limiter.Allow(key) {
			m.Logger.Warn("Rate limit exceeded", "client", key, "url", r.URL.Path)
			respondError(w, http.StatusTooManyRequests, msgTooManyRequests, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate resolves the bearer token into a principal stored on the context.
// WebSocket handshakes may pass the token as the access_token query parameter,
// since browsers cannot set headers on them.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok && websocket.IsWebSocketUpgrade(r) {
			token = r.URL.Query().Get("access_token")
		}
		token = strings.TrimSpace(token)

		if token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="product-api"`)
			respondError(w, http.StatusUnauthorized, msgUnauthenticated, nil)
			return
		}

		principal, err := m.Tokens.Parse(token)
		if err != nil {
			m.Logger.Debug("Rejected token", "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="product-api", error="invalid_token"`)
			respondError(w, http.StatusUnauthorized, msgInvalidToken, nil)
			return
		}

		ctx := auth.WithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole only lets through callers holding at least one of roles
func (m *Middleware) RequireRole(roles ...auth.Role) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, msgUnauthenticated, nil)
				return
			}

			if !principal.HasAnyRole(roles...) {
				m.Logger.Warn("Access denied",
					"subject", principal.Subject,
					"roles", principal.Roles,
					"required", roles,
					"url", r.URL.Path,
				)
				respondError(w, http.StatusForbidden, msgAccessDenied, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidationMiddleware validates the product in the request and adds it to the context
func (m *Middleware) ValidationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var product domain.ProductDTO
		err := json.NewDecoder(r.Body).Decode(&product)
		if err != nil {
			m.Logger.Error("Error decoding product", "error", err)
			http.Error(w, "Invalid product data", http.StatusBadRequest)
			return
		}

		errs := m.Validator.Validate(&product)
		if len(errs) > 0 {
			m.Logger.Debug("Validation errors", "errors", errs.Error())
			respondError(w, http.StatusBadRequest, msgValidationFailed, errs)
			return
		}

		// Add the validated product to the context
		ctx := context.WithValue(r.Context(), ContextKeyProduct, &product)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
