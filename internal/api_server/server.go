package apiserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/propinspect/inspection-planner/internal/auth"
	"github.com/propinspect/inspection-planner/internal/config"
	handlers "github.com/propinspect/inspection-planner/internal/handlers/v1"
	"github.com/propinspect/inspection-planner/internal/service"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/pkg/metrics"
	"github.com/propinspect/inspection-planner/pkg/middleware"
	"go.uber.org/zap"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
	metrics  *metrics.Middleware
	opts     []service.Option
}

// New returns a new instance of the inspection planner server. opts are
// passed to the scheduling services.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
	opts ...service.Option,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
		metrics:  metrics.NewMiddleware("api_server", cfg.Service.LatencyBuckets...),
		opts:     opts,
	}
}

// Handler builds the router with every middleware and route mounted.
func (s *Server) Handler() (http.Handler, error) {
	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	router := chi.NewRouter()
	router.Use(
		s.metrics.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	workloadSrv := service.NewWorkloadService(s.store, s.cfg.Scheduling, s.opts...)
	h := handlers.NewServiceHandler(
		service.NewAvailabilityService(s.store, workloadSrv, s.cfg.Scheduling),
		service.NewAssignmentService(s.store, workloadSrv, s.cfg.Scheduling, s.opts...),
		workloadSrv,
	)

	router.Group(func(r chi.Router) {
		r.Use(authenticator.Authenticator)
		h.Routes(r, auth.RequireRole(auth.RoleAdmin, auth.RoleSupervisor))
	})

	return router, nil
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	handler, err := s.Handler()
	if err != nil {
		return err
	}
	s.metrics.MustRegisterDefault()

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: handler}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
