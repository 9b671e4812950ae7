package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"mediq/internal/health"
	"mediq/internal/institution"
	"mediq/internal/institution/consumer"
	"mediq/internal/institution/metrics"
	"mediq/internal/institution/service"
	institutionstore "mediq/internal/institution/store/institution"
	medservicestore "mediq/internal/institution/store/medservice"
	"mediq/internal/platform/config"
	"mediq/internal/platform/httpserver"
	"mediq/internal/platform/kafka"
	"mediq/internal/platform/logger"
)

// main wires dependencies and runs both transports. Business logic lives in
// the institution service; both adapters are thin.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	institutions, medservices, cleanup, err := buildStores(cfg)
	if err != nil {
		log.Error("failed to open store", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()
	svc := institution.NewService(institutions, medservices,
		service.WithLogger(log),
		service.WithMetrics(m),
	)
	reporter := health.NewReporter(cfg.ServiceName, cfg.ServiceVersion, time.Now(), nil)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	health.NewHandler(reporter).Register(router)
	institution.NewHandler(svc, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting institution service", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.KafkaBrokers) > 0 {
		client, err := kafka.NewClient(cfg.KafkaBrokers, cfg.ConsumerGroup, cfg.RequestTopic)
		if err != nil {
			log.Error("failed to create kafka client", "error", err.Error())
			os.Exit(1)
		}
		defer client.Close()

		if err := kafka.EnsureTopics(ctx, client, cfg.RequestTopic, cfg.ReplyTopic); err != nil {
			log.Error("failed to ensure kafka topics", "error", err.Error())
			os.Exit(1)
		}

		dispatcher := institution.NewDispatcher(svc, reporter, log)
		cons := consumer.New(client, dispatcher, cfg.ReplyTopic, log)
		g.Go(func() error {
			log.Info("starting kafka consumer",
				"brokers", cfg.KafkaBrokers,
				"topic", cfg.RequestTopic,
				"group", cfg.ConsumerGroup,
			)
			return cons.Run(ctx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("service stopped")
}

// buildStores returns PostgreSQL-backed stores when DATABASE_URL is set and
// in-memory stores otherwise, so local development needs no database.
func buildStores(cfg config.Config) (service.InstitutionStore, service.MedicalServiceStore, func(), error) {
	if cfg.DatabaseURL == "" {
		medservices := medservicestore.NewInMemory()
		institutions := institutionstore.NewInMemory(medservices)
		medservices.BindInstitutions(institutions)
		return institutions, medservices, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return institutionstore.NewPostgres(db), medservicestore.NewPostgres(db), func() { db.Close() }, nil
}
