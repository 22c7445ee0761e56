package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/physiometrics/internal/config"
	"github.com/2beens/physiometrics/internal/db"
	"github.com/2beens/physiometrics/internal/middleware"
	"github.com/2beens/physiometrics/internal/physio/analysis"
	"github.com/2beens/physiometrics/internal/physio/journal"
	"github.com/2beens/physiometrics/internal/telemetry/metrics"
	"github.com/2beens/physiometrics/internal/telemetry/tracing"
	"github.com/2beens/physiometrics/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"
)

const (
	serviceName     = "physiometrics"
	shutdownTimeout = 15 * time.Second
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	journal     journal.Store
	redisClient *redis.Client
	dbPool      *pgxpool.Pool

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	PostgresPassword        string
	HoneycombTracingEnabled bool
}

func NewServer(ctx context.Context, params NewServerParams) (_ *Server, err error) {
	cfg := params.Config
	backend, err := journal.ParseBackend(cfg.JournalBackend)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:       cfg,
		otelShutdown: func() {},
	}
	defer func() {
		if err != nil {
			if closeErr := s.closeResources(); closeErr != nil {
				log.Errorf("close resources after failed setup: %s", closeErr)
			}
		}
	}()

	if addr := cfg.RedisAddr(); addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if rdbStatus := s.redisClient.Ping(ctx); rdbStatus.Err() != nil {
			log.Errorf("--> failed to ping redis: %s", rdbStatus.Err())
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	} else if backend == journal.BackendRedis {
		return nil, errors.New("redis journal backend needs redis_host")
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName, s.redisClient)
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}
	s.otelShutdown = otelShutdown

	var pgxpoolCollector prometheus.Collector
	if backend == journal.BackendPostgres {
		s.dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := s.dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		pgxpoolCollector = pgxpoolprometheus.NewCollector(
			s.dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		)
	}

	s.promRegistry = metrics.SetupPrometheus(pgxpoolCollector)
	s.metricsManager = metrics.NewManager("physio", "main", s.promRegistry)

	s.journal, err = s.newJournalStore(ctx, backend)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Server) newJournalStore(ctx context.Context, backend journal.Backend) (journal.Store, error) {
	var store journal.Store
	switch backend {
	case journal.BackendFile:
		fileStore, err := journal.NewFileStore(s.config.JournalFilePath, s.metricsManager.CounterJournalSkippedLines)
		if err != nil {
			return nil, fmt.Errorf("file journal: %w", err)
		}
		store = fileStore
	case journal.BackendRedis:
		store = journal.NewRedisStore(s.redisClient, s.metricsManager.CounterJournalSkippedLines)
	case journal.BackendPostgres:
		pgStore := journal.NewPostgresStore(s.dbPool)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("postgres journal: %w", err)
		}
		store = pgStore
	default:
		return nil, fmt.Errorf("%w: %q", journal.ErrUnknownBackend, backend)
	}

	log.Infof("journal backend: %s", backend)

	if s.config.JournalCacheSizeMB > 0 {
		cached := journal.NewCachedStore(store, s.config.JournalCacheSizeMB<<20, s.config.JournalCacheTTL.Duration)
		log.Debugf("journal query cache: %d MB, ttl %s", s.config.JournalCacheSizeMB, cached.TTL())
		return cached, nil
	}

	return store, nil
}

// Router builds the main API router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware(serviceName + "-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET").Name("root")

	var rateLimiter middleware.RequestRateLimiter
	if s.redisClient != nil {
		rateLimiter = redis_rate.NewLimiter(s.redisClient)
	}

	analysisHandler := analysis.NewHandler(
		analysis.NewService(s.journal, s.metricsManager),
	)
	analysisHandler.SetupRoutes(r, rateLimiter, s.config.EvaluateRateLimitPerMin, s.metricsManager)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.Router(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(metrics.Handler(s.promRegistry), "metrics"))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	ctx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown http server: %s", err)
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Errorf(" >>> failed to gracefully shutdown metrics http server: %s", err)
		}
		log.Warnln("metrics server shut down")
	}

	if err := s.closeResources(); err != nil {
		log.Errorf("close resources: %s", err)
	}
}

// closeResources releases the journal backends and the tracer. Safe to call
// on a partially set up server.
func (s *Server) closeResources() error {
	var err error

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		err = multierr.Append(err, s.redisClient.Close())
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeOpenConnections.Inc()
	case http.StateHijacked, http.StateClosed:
		s.metricsManager.GaugeOpenConnections.Dec()
	default:
		// do nothing
	}
}
