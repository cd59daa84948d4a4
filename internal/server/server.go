package server

import (
	"context"
	"log/slog"
	"net/http"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/autosave"
	"quizbowl-match-service/internal/config"
	httpserver "quizbowl-match-service/internal/http"
	"quizbowl-match-service/internal/http/handlers"
	"quizbowl-match-service/internal/http/middleware"
	"quizbowl-match-service/internal/logging"
	"quizbowl-match-service/internal/metrics"
	"quizbowl-match-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	matchService  *matches.Service
	archive       Archive
	httpServer    httpServer
	metricsServer httpServer
	saver         Saver
	metricsStop   func(context.Context) error
}

// New constructs a server with default archive and autosave wiring.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServerWithArchive(cfg, logger, nil)
}

func newServerWithArchive(cfg config.Config, logger *slog.Logger, archive Archive) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger)

	if archive == nil {
		archive = buildArchive(cfg, logger)
	}

	memoryStore := store.NewMemoryStore()
	svc := matches.NewService(memoryStore, recorder)
	restoreMatches(svc, archive, logger)

	saver := autosave.New(svc, archive, logger, recorder, cfg.Snapshots.Interval)
	httpSrv := buildHTTPServer(cfg, svc, saver, logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		matchService:  svc,
		archive:       archive,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		saver:         saver,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *matches.Service, httpSrv httpServer, saver Saver) *Server {
	return &Server{
		cfg:          cfg,
		logger:       logger,
		matchService: svc,
		httpServer:   httpSrv,
		saver:        saver,
	}
}

// restoreMatches rehydrates the in-memory registry from the archive.
// A failed restore logs and starts empty rather than blocking boot.
func restoreMatches(svc *matches.Service, archive Archive, logger *slog.Logger) {
	records, err := archive.LoadMatches(context.Background())
	if err != nil {
		logging.Warn(logger, "match restore failed, starting empty",
			slog.String(logging.FieldBackend, archive.Name()),
			slog.Any("err", err),
		)
		return
	}
	for _, record := range records {
		svc.Restore(record)
	}
	logging.Info(logger, "matches restored",
		slog.String(logging.FieldBackend, archive.Name()),
		logging.FieldCount, len(records),
	)
}

func buildHTTPServer(cfg config.Config, svc *matches.Service, saver Saver, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	var statusFn func() autosave.Status
	if saver != nil {
		statusFn = saver.Status
	}

	handler := handlers.NewHandler(svc, logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.Snapshots.AdminToken != "" && saver != nil {
		admin = handlers.NewAdminHandler(func(r *http.Request) error {
			return saver.SaveAll(r.Context())
		}, cfg.Snapshots.AdminToken, logger)
	}
	router := httpserver.NewRouter(handler, admin)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)
	wrapped = middleware.RateLimitMiddleware(float64(cfg.RateLimit.RPS), cfg.RateLimit.Burst, wrapped)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the autosave loop and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.saver != nil {
		s.saver.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.saver != nil {
		if err := s.saver.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop autosave", "error", err)
		}
		// Final sweep so nothing recorded since the last tick is lost.
		if err := s.saver.SaveAll(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("final autosave sweep failed", "error", err)
		}
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.archive != nil {
		if err := s.archive.Close(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("archive close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
