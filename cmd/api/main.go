package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/Dan9191/bank-cards/internal/events"
	"github.com/Dan9191/bank-cards/internal/handler"
	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/Dan9191/bank-cards/internal/service"
	"github.com/Dan9191/bank-cards/internal/utils"
	"github.com/Dan9191/bank-cards/internal/utils/email"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	codec, err := utils.NewCodec(cfg.CardCodec, cfg.EncryptionKey, cfg.CodecKeyword)
	if err != nil {
		return fmt.Errorf("failed to init card codec: %w", err)
	}

	// Initialize layers
	cardRepo := repository.NewCardRepository(db, logger)
	transferRepo := repository.NewTransferRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	txManager := repository.NewTxManager(db, logger)

	var notifiers service.Notifiers
	if cfg.NATSURL != "" {
		conn, err := events.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer conn.Drain()
		notifiers = append(notifiers, events.NewPublisher(conn, cfg.NATSSubjectPrefix, logger))
		logger.WithField("url", cfg.NATSURL).Info("NATS connection established")
	}
	if cfg.EmailEnabled() {
		sender := email.NewSender(cfg, logger)
		notifiers = append(notifiers, email.NewNotifier(sender, userRepo, codec, utils.Mask, logger))
		logger.WithField("smtp_host", cfg.SMTPHost).Info("Email notifications enabled")
	}

	notifier := service.NewAsyncNotifier(notifiers, logger, cfg.NotifyQueueSize, cfg.NotifyTimeout)

	authService := service.NewAuthService(userRepo, logger, cfg.JWTSecret, cfg.TokenTTL)
	cardService := service.NewCardService(cardRepo, codec, logger)
	engine := service.NewTransferEngine(cardRepo, transferRepo, txManager, notifier, logger, service.EngineConfig{
		MaxRetries: cfg.TransferMaxRetries,
		TxTimeout:  cfg.TxTimeout,
	})
	sweeper := service.NewExpirySweeper(cardRepo, logger)

	// Setup router
	router := handler.NewRouter(
		handler.NewAuthHandler(authService, logger),
		handler.NewCardHandler(cardService, engine, logger),
		handler.NewTransferHandler(engine, cardService, logger),
		authService,
		logger,
	)

	var h http.Handler = router
	h = chimw.Recoverer(h)
	h = middleware.RequestLogger(logger)(h)
	h = chimw.RealIP(h)
	h = chimw.RequestID(h)
	h = httprate.LimitByIP(cfg.RateLimit, time.Minute)(h)
	h = cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}).Handler(h)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := sweeper.Start(ctx, cfg.ExpirySweepSpec); err != nil {
		return err
	}
	defer sweeper.Stop()

	// Queued notifications are flushed once the server has shut down
	notifyCtx, stopNotify := context.WithCancel(context.Background())
	defer stopNotify()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return notifier.Run(notifyCtx)
	})
	g.Go(func() error {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		defer stopNotify()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
