package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ratemystore/ratemystore/internal/auth"
	"github.com/ratemystore/ratemystore/internal/config"
	"github.com/ratemystore/ratemystore/internal/domain"
	"github.com/ratemystore/ratemystore/internal/repository"
	"github.com/ratemystore/ratemystore/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	tokens  *auth.TokenManager
	logger  *log.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, tokens *auth.TokenManager, logger *log.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		repo:   repo,
		tokens: tokens,
		logger: logger,
		router: r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireAuth).Put("/password", s.handleUpdatePassword)
	})

	s.router.Route("/api/stores", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListStores)
		r.With(s.requireRole(domain.RoleAdmin)).Get("/admin", s.handleListStoresAdmin)
		r.With(s.requireRole(domain.RoleAdmin)).Post("/", s.handleCreateStore)
		r.With(s.requireRole(domain.RoleStoreOwner)).Get("/owner/dashboard", s.handleOwnerDashboard)
	})

	s.router.Route("/api/ratings", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.With(s.requireRole(domain.RoleNormalUser)).Post("/", s.handleSubmitRating)
		r.Get("/store/{storeID}", s.handleGetOwnRating)
	})

	s.router.Route("/api/users", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Use(s.requireRole(domain.RoleAdmin))
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Get("/dashboard-stats", s.handleDashboardStats)
		r.Get("/{userID}", s.handleGetUser)
	})
}

// Start boots the HTTP server and blocks until the context is
// cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
