package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymlog/internal/config"
	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/gymlog/exercises"
	"github.com/2beens/gymlog/internal/gymlog/progress"
	"github.com/2beens/gymlog/internal/gymlog/records"
	"github.com/2beens/gymlog/internal/gymlog/templates"
	"github.com/2beens/gymlog/internal/gymlog/workouts"
	"github.com/2beens/gymlog/internal/kvstore"
	"github.com/2beens/gymlog/internal/middleware"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	store  kvstore.Store

	catalog         *exercises.Catalog
	workoutsLog     *workouts.Log
	aggregator      *records.Aggregator
	templatesStore  *templates.Store
	progressBuilder *progress.Builder
	tracker         *gymlog.Tracker

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Config.TracingEnabled, "gymlog")
	if err != nil {
		return nil, err
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gymlog", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	openParams := kvstore.OpenParamsFromConfig(params.Config)
	openParams.MetricsManager = metricsManager
	opened, err := kvstore.Open(ctx, openParams)
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("open store: %w", err)
	}

	if opened.DBPool != nil {
		promRegistry.MustRegister(pgxpoolprometheus.NewCollector(
			opened.DBPool,
			map[string]string{"db_name": params.Config.PostgresDBName},
		))
	}

	s := newServer(params.Config, opened.Store, metricsManager)
	s.versionInfo = params.VersionInfo
	s.promRegistry = promRegistry
	s.otelShutdown = otelShutdown

	return s, nil
}

func newServer(cfg *config.Config, store kvstore.Store, metricsManager *metrics.Manager) *Server {
	catalog := exercises.NewDefaultCatalog()
	idGenerator := pkg.UUIDGenerator{}
	workoutsLog := workouts.NewLog(store, idGenerator)
	aggregator := records.NewAggregator(store, catalog)

	return &Server{
		config:          cfg,
		store:           store,
		catalog:         catalog,
		workoutsLog:     workoutsLog,
		aggregator:      aggregator,
		templatesStore:  templates.NewStore(store, idGenerator),
		progressBuilder: progress.NewBuilder(workoutsLog),
		tracker:         gymlog.NewTracker(catalog, workoutsLog, aggregator, metricsManager),
		metricsManager:  metricsManager,
		otelShutdown:    func() {},
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymlog-router"))

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteResponse(w, pkg.ContentType.Text, s.versionInfo, http.StatusOK)
	}).Methods("GET", "OPTIONS").Name("version")

	exercisesHandler := exercises.NewHandler(s.catalog)
	r.HandleFunc("/exercises", exercisesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises/muscle-groups", exercisesHandler.HandleMuscleGroups).Methods("GET", "OPTIONS").Name("list-muscle-groups")
	r.HandleFunc("/exercises/categories", exercisesHandler.HandleCategories).Methods("GET", "OPTIONS").Name("list-categories")

	workoutsHandler := workouts.NewHandler(s.workoutsLog, s.tracker, s.catalog)
	r.HandleFunc("/workouts", workoutsHandler.HandleSave).Methods("POST", "OPTIONS").Name("save-workout")
	r.HandleFunc("/workouts", workoutsHandler.HandleHistory).Methods("GET", "OPTIONS").Name("workouts-history")
	r.HandleFunc("/workouts/date/{day}", workoutsHandler.HandleListByDate).Methods("GET", "OPTIONS").Name("workouts-by-date")
	r.HandleFunc("/workouts/new-log/{exerciseId}", workoutsHandler.HandleNewExerciseLog).Methods("GET", "OPTIONS").Name("new-exercise-log")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleUpdate).Methods("PATCH", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{id}/repeat", workoutsHandler.HandleRepeat).Methods("GET", "OPTIONS").Name("repeat-workout")

	recordsHandler := records.NewHandler(s.aggregator)
	r.HandleFunc("/records", recordsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-records")
	r.HandleFunc("/records/dashboard", recordsHandler.HandleDashboard).Methods("GET", "OPTIONS").Name("records-dashboard")
	r.HandleFunc("/records/{exerciseId}", recordsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-record")
	r.HandleFunc("/records/{exerciseId}/{reps}", recordsHandler.HandleGetMaxWeight).Methods("GET", "OPTIONS").Name("get-max-weight")

	progressHandler := progress.NewHandler(s.progressBuilder)
	r.HandleFunc("/progress/{exerciseId}", progressHandler.HandleSeries).Methods("GET", "OPTIONS").Name("progress-series")
	r.HandleFunc("/progress/{exerciseId}/reps", progressHandler.HandleRepCounts).Methods("GET", "OPTIONS").Name("progress-rep-counts")

	templatesHandler := templates.NewHandler(s.templatesStore, s.workoutsLog, s.catalog, s.metricsManager)
	r.HandleFunc("/templates", templatesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-template")
	r.HandleFunc("/templates/from-workout", templatesHandler.HandleCreateFromWorkout).Methods("POST", "OPTIONS").Name("template-from-workout")
	r.HandleFunc("/templates", templatesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-templates")
	r.HandleFunc("/templates/{id}", templatesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-template")
	r.HandleFunc("/templates/{id}", templatesHandler.HandleUpdate).Methods("PATCH", "OPTIONS").Name("update-template")
	r.HandleFunc("/templates/{id}", templatesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-template")
	r.HandleFunc("/templates/{id}/logs", templatesHandler.HandleExerciseLogs).Methods("GET", "OPTIONS").Name("template-logs")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest(middleware.MaxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	// in-flight requests are done, the store can go
	log.Debugln("closing store ...")
	if err := s.store.Close(); err != nil {
		log.Errorf("failed to close store: %s", err)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
