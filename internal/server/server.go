package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/CommunityEconomy_Go/internal/auth"
	"github.com/osse101/CommunityEconomy_Go/internal/boost"
	_ "github.com/osse101/CommunityEconomy_Go/internal/docs"
	"github.com/osse101/CommunityEconomy_Go/internal/handler"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/metrics"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
	"github.com/osse101/CommunityEconomy_Go/internal/ratelimit"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
	"github.com/osse101/CommunityEconomy_Go/internal/sse"
)

// Deps are the services the router dispatches to. Limiter may be nil.
type Deps struct {
	Readiness   map[string]handler.Pinger
	Progression progression.Service
	Investment  investment.Service
	Settings    settings.Store
	Boosts      boost.Service
	Tokens      *auth.Tokens
	Hub         *sse.Hub
	Limiter     *ratelimit.Limiter
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, deps Deps) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(apiKey, trustedProxies, deps),
			ReadHeaderTimeout: ReadHeaderTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter builds the route tree. Bot and admin routes take the API key,
// dashboard routes take a bearer token.
func NewRouter(apiKey string, trustedProxies []string, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(RequestGuardMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(deps.Readiness))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	limit := func(next http.Handler) http.Handler { return next }
	if deps.Limiter != nil {
		limit = deps.Limiter.Middleware
	}

	progressionHandlers := handler.NewProgressionHandlers(deps.Progression)
	investmentHandlers := handler.NewInvestmentHandlers(deps.Investment)
	adminHandlers := handler.NewAdminHandlers(deps.Progression, deps.Investment, deps.Settings, deps.Boosts)
	dashboardHandlers := handler.NewDashboardHandlers(deps.Tokens, deps.Progression, deps.Investment, deps.Settings, deps.Boosts)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(APIKeyMiddleware(apiKey, trustedProxies, detector))
			r.Use(limit)

			r.Route("/progression", func(r chi.Router) {
				r.Post("/message", progressionHandlers.HandleMessage)
				r.Post("/voice", progressionHandlers.HandleVoice)
				r.Post("/image", progressionHandlers.HandleImage)
				r.Post("/prestige", progressionHandlers.HandlePrestige)
				r.Get("/account/{userID}", progressionHandlers.HandleGetAccount)
				r.Get("/leaderboard", progressionHandlers.HandleLeaderboard)
			})

			r.Route("/investments", func(r chi.Router) {
				r.Get("/catalog", investmentHandlers.HandleCatalog)
				r.Get("/attention", investmentHandlers.HandleAttention)
				r.Get("/portfolio/{userID}", investmentHandlers.HandlePortfolio)
				r.Post("/purchase", investmentHandlers.HandlePurchase())
				r.Post("/sell", investmentHandlers.HandleSell())
				r.Post("/maintain", investmentHandlers.HandleMaintain())
				r.Post("/repair", investmentHandlers.HandleRepair())
				r.Post("/collect", investmentHandlers.HandleCollect())
				r.Post("/collect-all", investmentHandlers.HandleCollectAll)
				r.Post("/maintain-all", investmentHandlers.HandleMaintainAll)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Post("/coins", adminHandlers.HandleCoins)
				r.Post("/levels", adminHandlers.HandleLevels)
				r.Post("/xp-toggle", adminHandlers.HandleXPToggle)
				r.Get("/settings", adminHandlers.HandleGetSettings)
				r.Patch("/settings", adminHandlers.HandlePatchSettings)
				r.Post("/boosts/permanent", adminHandlers.HandlePermanentBoost)
				r.Post("/boosts/temporary", adminHandlers.HandleTemporaryBoost)
				r.Post("/investments/reset-income", adminHandlers.HandleResetIncome)
				r.Post("/investments/tick", adminHandlers.HandleTick)
			})

			r.Post("/dashboard/token", dashboardHandlers.HandleIssueToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Tokens.Middleware)
			r.Use(limit)

			r.Get("/dashboard/me", dashboardHandlers.HandleMe)
			r.Get("/dashboard/events", sse.Handler(deps.Hub, auth.UserFromRequest))
			r.Post("/dashboard/investments/{property}/collect", dashboardHandlers.HandleCollect())
			r.Post("/dashboard/investments/{property}/maintain", dashboardHandlers.HandleMaintain())
			r.Post("/dashboard/investments/{property}/repair", dashboardHandlers.HandleRepair())
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush passes through so the event stream is not buffered
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func isQuiet(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuiet(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
