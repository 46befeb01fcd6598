// Server entrypoint: wires configuration, stores, services, event publishing,
// and the HTTP surface. Business logic lives in the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"golang.org/x/sync/errgroup"

	charitymetrics "givepact/internal/charity/metrics"
	charityservice "givepact/internal/charity/service"
	charitystore "givepact/internal/charity/store"
	credentialmetrics "givepact/internal/credential/metrics"
	credentialservice "givepact/internal/credential/service"
	credentialstore "givepact/internal/credential/store"
	donationmetrics "givepact/internal/donation/metrics"
	donationservice "givepact/internal/donation/service"
	donationstore "givepact/internal/donation/store"
	"givepact/internal/guard"
	httpapi "givepact/internal/http"
	"givepact/internal/platform/config"
	"givepact/internal/platform/httpserver"
	"givepact/internal/platform/logger"
	platformmetrics "givepact/internal/platform/metrics"
	platformredis "givepact/internal/platform/redis"
	"givepact/internal/tokenregistry"
	"givepact/internal/transfer"
	"givepact/migrations"
	"givepact/pkg/platform/events"
	eventskafka "givepact/pkg/platform/events/kafka"
	eventsmemory "givepact/pkg/platform/events/store/memory"
	eventsworker "givepact/pkg/platform/events/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	group, ctx := errgroup.WithContext(ctx)

	// Privileged operations: a configured admin list widens the single owner
	// to an allowlist.
	var policy guard.Policy
	if len(cfg.Admins) > 0 {
		policy = guard.NewAllowlist(append(cfg.Admins, cfg.Owner)...)
	} else {
		policy = guard.NewSingleOwner(cfg.Owner)
	}
	reentrancy := guard.NewReentrancyGuard()

	// Stores: Postgres when configured, in-memory otherwise.
	var (
		db    *sql.DB
		txRun donationservice.TxRunner

		tokenStore      tokenregistry.Store
		charityStore    charityservice.Store
		credentialStore credentialservice.Store
		donationStore   donationservice.Store
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return err
		}

		goose.SetBaseFS(migrations.FS)
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		if err := goose.Up(db, "."); err != nil {
			return err
		}

		tokenStore = tokenregistry.NewPostgres(db)
		charityStore = charitystore.NewPostgres(db)
		credentialStore = credentialstore.NewPostgres(db)
		donationStore = donationstore.NewPostgres(db)
		txRun = newDonationPostgresTx(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		tokenStore = tokenregistry.NewInMemoryStore()
		charityStore = charitystore.NewInMemory()
		credentialStore = credentialstore.NewInMemory()
		donationStore = donationstore.NewInMemory()
	}

	// Token support cache in front of the donate hot path.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		tokenStore = tokenregistry.NewCachedStore(tokenStore, redisClient.Client, config.TokenSupportCacheTTL)
	}

	// Domain events: Kafka when brokers are configured, otherwise an
	// in-process worker draining to the in-memory store.
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := eventskafka.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		inbox := make(chan events.Event, 256)
		publisher = events.NewChannelPublisher(inbox)
		worker := eventsworker.New(eventsmemory.NewInMemoryStore(), inbox)
		group.Go(func() error { return worker.Run(ctx) })
	}

	// The in-memory bank stands in for the external settlement rail; swap in
	// a real mover implementation when one exists.
	mover := transfer.NewBank()

	tokens := tokenregistry.New(tokenStore, policy,
		tokenregistry.WithLogger(log), tokenregistry.WithPublisher(publisher))
	charities := charityservice.New(charityStore, policy,
		charityservice.WithLogger(log), charityservice.WithPublisher(publisher),
		charityservice.WithMetrics(charitymetrics.New()))
	credentials := credentialservice.New(credentialStore,
		credentialservice.WithLogger(log), credentialservice.WithPublisher(publisher),
		credentialservice.WithMetrics(credentialmetrics.New()))

	donationOpts := []donationservice.Option{
		donationservice.WithLogger(log),
		donationservice.WithPublisher(publisher),
		donationservice.WithMetrics(donationmetrics.New()),
		donationservice.WithTreasury(cfg.Treasury),
	}
	if txRun != nil {
		donationOpts = append(donationOpts, donationservice.WithTxRunner(txRun))
	}
	donations := donationservice.New(donationStore, tokens, charities, credentials,
		mover, reentrancy, policy, donationOpts...)

	var checks []httpapi.HealthCheck
	if db != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if redisClient != nil {
		checks = append(checks, httpapi.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	handler := httpapi.New(charities, tokens, donations, credentials, log,
		httpapi.WithHealthChecks(checks...))
	router := httpapi.NewRouter(handler, log, platformmetrics.New())
	srv := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("starting givepact server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
