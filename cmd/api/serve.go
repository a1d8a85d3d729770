package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	httpadp "syndicated-loan-service/internal/adapter/http"
	"syndicated-loan-service/internal/adapter/middleware"
	"syndicated-loan-service/internal/adapter/repository/mysql"
	"syndicated-loan-service/internal/config"
	"syndicated-loan-service/internal/domain/event"
	"syndicated-loan-service/internal/infrastructure/cache"
	"syndicated-loan-service/internal/infrastructure/db"
	"syndicated-loan-service/internal/infrastructure/messaging"
	"syndicated-loan-service/internal/observability"
	"syndicated-loan-service/internal/usecase/drawdown"
	"syndicated-loan-service/internal/usecase/facility"
	"syndicated-loan-service/internal/usecase/fee"
	"syndicated-loan-service/internal/usecase/lifecycle"
	"syndicated-loan-service/internal/usecase/loan"
	"syndicated-loan-service/internal/usecase/party"
	"syndicated-loan-service/internal/usecase/payment"
	"syndicated-loan-service/internal/usecase/syndicate"
)

func serveCmd(configFile *string) *cobra.Command {
	var noIdempotency bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, noIdempotency)
		},
	}
	cmd.Flags().BoolVar(&noIdempotency, "no-idempotency", false, "skip the redis idempotency store (local runs)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, noIdempotency bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	level := observability.ParseLevel(cfg.LogLevel)
	logger := func(component string) zerolog.Logger {
		return observability.NewLoggerTo(os.Stdout, component, level)
	}
	log := logger("api")

	gdb, err := openDB(cfg)
	if err != nil {
		return err
	}
	if cfg.SQLitePath != "" {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	var notifier event.Notifier = event.NopNotifier{}
	if cfg.NATSURL != "" {
		nc, err := messaging.Connect(cfg.NATSURL, "syndicated-loan-service")
		if err != nil {
			return err
		}
		defer drain(nc)
		notifier = messaging.NewNotifier(nc, cfg.NATSSubjectPrefix, metrics)
		log.Info().Str("url", cfg.NATSURL).Msg("nats: connected")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	checks := []httpadp.Check{{Name: "db", Ping: sqlDB.PingContext}}

	var idem echo.MiddlewareFunc
	if !noIdempotency {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		idem = middleware.NewIdempotency(rdb, cfg.IdempotencyTTL(), metrics, logger("idempotency")).Middleware()
		checks = append(checks, httpadp.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	tx := mysql.NewGormUoW(gdb)
	exec := lifecycle.NewExecutor(logger("lifecycle"), metrics)
	mgr := lifecycle.NewManager(exec)
	dispatcher := lifecycle.NewDispatcher(logger("dispatcher"), metrics)
	lifecycle.NewHandlers(mgr, logger("handlers")).Register(dispatcher)

	e := httpadp.NewRouter(httpadp.Handlers{
		System:     httpadp.NewHandler(reg, checks...),
		Parties:    httpadp.NewPartyHandler(party.NewUsecase(tx, mgr)),
		Syndicates: httpadp.NewSyndicateHandler(syndicate.NewUsecase(tx)),
		Facilities: httpadp.NewFacilityHandler(facility.NewUsecase(tx, dispatcher, notifier, mgr, logger("facility"))),
		Drawdowns:  httpadp.NewDrawdownHandler(drawdown.NewUsecase(tx, dispatcher, notifier, metrics, logger("drawdown"))),
		Loans:      httpadp.NewLoanHandler(loan.NewUsecase(tx)),
		Payments:   httpadp.NewPaymentHandler(payment.NewUsecase(tx, dispatcher, notifier, exec, metrics, logger("payment"))),
		Fees:       httpadp.NewFeeHandler(fee.NewUsecase(tx, metrics, logger("fee"))),
	}, idem, log)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info().Str("addr", addr).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func migrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			return migrate(cfg, observability.NewLoggerTo(os.Stdout, "migrate", observability.ParseLevel(cfg.LogLevel)))
		},
	}
}

func migrate(cfg *config.Config, log zerolog.Logger) error {
	gdb, err := openDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gdb); err != nil {
		return err
	}
	log.Info().Msg("schema up to date")
	return nil
}

func loadConfig(file string) (*config.Config, error) {
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	if cfg.SQLitePath != "" {
		return db.OpenSQLite(cfg.SQLitePath)
	}
	return db.OpenGorm(cfg.MySQLDSN())
}

func drain(nc *nats.Conn) {
	if err := nc.Drain(); err != nil {
		nc.Close()
	}
}
