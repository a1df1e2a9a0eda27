// Package server assembles the HTTP surface: health and metrics endpoints and
// the Connect services, behind h2c so clients can use HTTP/2 without TLS.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitit/internal/auth"
	"github.com/mmynk/splitit/internal/events"
	"github.com/mmynk/splitit/internal/middleware"
	"github.com/mmynk/splitit/internal/service"
	"github.com/mmynk/splitit/internal/storage"
	"github.com/mmynk/splitit/pkg/api/apiconnect"
)

// Config holds the router's dependencies.
type Config struct {
	Repo      *storage.Repository
	Publisher events.Publisher
	Logger    *slog.Logger

	// JWT enables authentication when set: the settlement services then
	// require a bearer token and the AuthService is mounted.
	JWT *auth.JWTManager
}

// NewRouter creates the root router.
func NewRouter(cfg Config) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	interceptors := []connect.Interceptor{middleware.MetricsInterceptor()}
	if cfg.JWT != nil {
		interceptors = append(interceptors, middleware.RequireAuth(cfg.JWT))
	}
	interceptors = append(interceptors, middleware.LoggingInterceptor(cfg.Logger))
	opts := connect.WithInterceptors(interceptors...)

	mount := func(path string, h http.Handler) {
		r.Handle(path+"*", h)
	}

	mount(apiconnect.NewGroupServiceHandler(service.NewGroupService(cfg.Repo, cfg.Publisher), opts))
	mount(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(cfg.Repo, cfg.Publisher), opts))
	mount(apiconnect.NewSummaryServiceHandler(service.NewSummaryService(cfg.Repo), opts))

	if cfg.JWT != nil {
		authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(cfg.Repo), cfg.Repo, cfg.JWT, cfg.Logger)
		mount(apiconnect.NewAuthServiceHandler(authSvc, connect.WithInterceptors(
			middleware.MetricsInterceptor(),
			middleware.OptionalAuth(cfg.JWT),
			middleware.LoggingInterceptor(cfg.Logger),
		)))
	}

	return r
}

// Handler wraps the router with h2c for HTTP/2 without TLS.
func Handler(cfg Config) http.Handler {
	return h2c.NewHandler(NewRouter(cfg), &http2.Server{})
}

// requestLogger logs every request with its duration and status.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", chimiddleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// cors adds CORS headers for browser clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
