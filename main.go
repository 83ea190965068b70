package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"CryptoScannerBot/config"
	"CryptoScannerBot/internal/handlers"
	applog "CryptoScannerBot/internal/logger"
	"CryptoScannerBot/internal/metrics"
	"CryptoScannerBot/internal/notification"
	"CryptoScannerBot/internal/operations/binance"
	"CryptoScannerBot/internal/repositories"
	"CryptoScannerBot/internal/server"
	"CryptoScannerBot/internal/services/scanner"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	log, err := applog.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create logger:", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	// Initialize Binance client
	binanceClient := binance.NewBinanceClient(cfg.Exchange, cfg.Scan.QuoteAsset, log)

	// Initialize scanner
	scan := scanner.New(binanceClient, binanceClient,
		scanner.WithLimit(cfg.Scan.KlineLimit),
		scanner.WithWorkers(cfg.Scan.Workers),
		scanner.WithInstrumentTimeout(cfg.Scan.InstrumentTimeout),
		scanner.WithLogger(log),
		scanner.WithRecorder(recorder),
	)

	scanHandler := handlers.NewScanHandler(scan, handlers.ScanHandlerConfig{
		Intervals:         cfg.Scan.Intervals,
		ParallelIntervals: cfg.Scan.ParallelIntervals,
		Every:             cfg.Scan.Every,
		FirstDelay:        cfg.Scan.FirstDelay,
	}, log)
	scanHandler.SetObserver(recorder)

	srv := server.New(cfg.Server.Addr, scanHandler, registry, log)

	// Setup database
	if cfg.Database.Enabled() {
		db, err := setupDatabase(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up database")
		}
		scanRepo := repositories.NewScanRepository(db)
		scanHandler.SetStore(scanRepo)
		srv.SetHistory(scanRepo)
	} else {
		log.Info().Msg("DB_HOST not set, scan history will not be persisted")
	}

	// Setup context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if !cfg.Telegram.Disabled {
		tg := notification.NewTelegramClient(cfg.Telegram.Token)
		bot := notification.NewBot(tg, scanHandler, cfg.Telegram.ChatID, log)
		scanHandler.SetNotifier(bot)

		g.Go(func() error {
			return bot.Run(ctx)
		})
	}

	g.Go(func() error {
		scanHandler.Start(ctx)
		return nil
	})

	g.Go(func() error {
		return srv.Run(ctx)
	})

	log.Info().
		Strs("intervals", cfg.Scan.Intervals).
		Dur("every", cfg.Scan.Every).
		Msg("scanner bot started")

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("shutdown with error")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}

func setupDatabase(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// Auto migrate database schemas
	if err := repositories.NewScanRepository(db).AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
