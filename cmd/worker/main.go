package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"payments-worker/config"
	"payments-worker/internal/adapter/chain/ton"
	httpHandler "payments-worker/internal/adapter/http/handler"
	"payments-worker/internal/adapter/provider"
	"payments-worker/internal/adapter/provider/cryptopay"
	"payments-worker/internal/adapter/provider/toncenter"
	pgStorage "payments-worker/internal/adapter/storage/postgres"
	redisStorage "payments-worker/internal/adapter/storage/redis"
	"payments-worker/internal/core/domain"
	"payments-worker/internal/core/ports"
	"payments-worker/internal/service"
	"payments-worker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	instanceID := uuid.New().String()

	log.Info().
		Str("instance", instanceID).
		Bool("testnet", cfg.TON.Testnet).
		Int("port", cfg.Server.Port).
		Msg("Starting payments worker")

	minWithdraw, err := domain.ParseTON(cfg.Worker.MinWithdrawTON)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Worker.MinWithdrawTON).Msg("Invalid worker.min_withdraw_ton")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.Migrate {
		if err := pgStorage.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
	}

	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}

	// Redis is only needed for tick leases.
	var lease ports.TickLease
	if cfg.Worker.LeaseEnabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")
		lease = redisStorage.NewTickLease(rdb, instanceID)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	// Repositories
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	depositRepo := pgStorage.NewDepositRepo(pool)
	withdrawalRepo := pgStorage.NewWithdrawalRepo(pool)
	transactor := pgStorage.NewTransactor(pool, cfg.Database.LockTimeout)

	requester := provider.NewRequester(cfg.HTTPClient, log)

	// Optional rails. Missing configuration disables a rail, it never stops the process.
	var invoices ports.InvoiceProvider
	if cfg.CryptoPay.Enabled() {
		invoices = cryptopay.NewClient(cfg.CryptoPay.BaseURL, cfg.CryptoPay.APIToken, requester)
	} else {
		log.Warn().Msg("cryptopay not configured, invoice deposits disabled")
	}

	treasuryAddress := ""
	if cfg.TON.DepositsEnabled() {
		treasuryAddress = cfg.TON.TreasuryAddress
	} else {
		log.Warn().Msg("treasury address or indexer not configured, on-chain deposits disabled")
	}

	var opener ports.TreasuryOpener
	if cfg.TON.WithdrawalsEnabled() {
		opener = ton.NewOpener(cfg.TON, logger.Component(log, "treasury"))
	} else {
		log.Warn().Msg("treasury mnemonic not configured, withdrawals stay queued")
	}

	// Services
	ledgerSvc := service.NewLedgerService(ledgerRepo, transactor, log)
	depositSvc := service.NewDepositService(depositRepo, ledgerRepo, transactor, invoices,
		service.InvoiceSettings{Asset: cfg.CryptoPay.Asset, Description: cfg.CryptoPay.Description},
		treasuryAddress, log)
	withdrawalSvc := service.NewWithdrawalService(withdrawalRepo, ledgerRepo, transactor, minWithdraw, log)
	adminSvc := service.NewAdminService(depositRepo, withdrawalRepo, ledgerRepo, transactor, log)

	// Scheduler
	scheduler := service.NewScheduler(lease, cfg.Worker.TickTimeout, cfg.Worker.MinPollInterval,
		logger.Component(log, "scheduler"))

	var depositTasks []service.Task
	if treasuryAddress != "" {
		indexer := toncenter.NewClient(cfg.TON.ToncenterBaseURL, cfg.TON.ToncenterAPIKey, requester)
		onChain := service.NewOnChainReconciler(depositRepo, ledgerRepo, transactor, indexer,
			ton.NewCanonicalizer(cfg.TON.Testnet), service.OnChainSettings{
				TreasuryAddress: treasuryAddress,
				PageSize:        cfg.TON.IndexerPageSize,
				BatchSize:       cfg.Worker.PendingBatchSize,
				ClockSkew:       cfg.Worker.ClockSkew,
			}, logger.Component(log, "onchain_reconciler"))
		depositTasks = append(depositTasks, onChain.Tick)
	}
	if invoices != nil {
		invoiceRec := service.NewInvoiceReconciler(depositRepo, ledgerRepo, transactor, invoices,
			cfg.Worker.PendingBatchSize, logger.Component(log, "invoice_reconciler"))
		depositTasks = append(depositTasks, invoiceRec.Tick)
	}
	if len(depositTasks) > 0 {
		scheduler.Every("deposits", cfg.Worker.DepositPollInterval, service.Sequence(depositTasks...))
	}

	if opener != nil {
		treasury := service.NewTreasuryContext(opener, logger.Component(log, "treasury"))
		engine := service.NewDisbursementEngine(withdrawalRepo, ledgerRepo, transactor, treasury, minWithdraw,
			logger.Component(log, "disbursement"))
		scheduler.Every("withdrawals", cfg.Worker.WithdrawPollInterval, engine.Tick)
	}

	// HTTP
	gin.SetMode(cfg.Server.Mode)
	if cfg.Admin.Token == "" {
		log.Warn().Msg("admin.token not set, /api/v1 disabled")
	}
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		DepositSvc:     depositSvc,
		WithdrawalSvc:  withdrawalSvc,
		AdminSvc:       adminSvc,
		HealthCheckers: healthCheckers,
		AdminToken:     cfg.Admin.Token,
		Logger:         logger.Component(log, "http"),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	wg.Wait()
	log.Info().Msg("Worker exited")
}
