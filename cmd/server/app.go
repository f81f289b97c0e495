package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/notify"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore store.UserStore
	taskStore store.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
	taskService      service.TaskService

	// Notification queue. inProcessWorker is non-nil only in single-binary
	// mode, when no external broker is configured.
	broker          notify.Broker
	inProcessWorker *notify.Worker
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger, and database connection must already
// be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_seconds", cfg.Auth.TokenLifetimeSeconds)

	hasher := auth.NewBcryptHasher()
	app.passwordVerifier = hasher

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)
	txRunner := store.NewSQLTxRunner(db)

	if err := app.setupNotifications(); err != nil {
		return nil, fmt.Errorf("failed to set up notification queue: %w", err)
	}

	notifier := notify.NewPublisher(app.broker)
	app.userService = service.NewUserService(app.userStore, txRunner, hasher, notifier, logger)
	app.taskService = service.NewTaskService(app.taskStore, txRunner, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupNotifications selects the notification broker. With a configured
// broker URL the server only enqueues and a separate worker process
// delivers; without one the server runs an in-memory queue and delivers
// jobs itself.
func (app *application) setupNotifications() error {
	if app.config.Queue.BrokerURL == "" {
		app.logger.Info("no broker configured, using in-memory notification queue")
		app.broker = notify.NewMemoryBroker(0)

		sender := notify.NewSMTPSender(app.config.Mail)
		workerCfg := notify.DefaultWorkerConfig()
		if app.config.Queue.WorkerCount > 0 {
			workerCfg.WorkerCount = app.config.Queue.WorkerCount
		}
		app.inProcessWorker = notify.NewWorker(app.broker, sender, workerCfg, app.logger)
		app.inProcessWorker.Start()
		return nil
	}

	broker, err := notify.NewRedisBroker(app.config.Queue.BrokerURL, app.config.Queue.ResultBackendURL)
	if err != nil {
		return err
	}
	app.broker = broker
	app.logger.Info("connected to notification broker")
	return nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.inProcessWorker != nil {
		app.inProcessWorker.Stop()
	}

	if app.broker != nil {
		if err := app.broker.Close(); err != nil {
			app.logger.Error("Error closing notification broker", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

// dbTimeout bounds startup database checks.
const dbTimeout = 5 * time.Second
