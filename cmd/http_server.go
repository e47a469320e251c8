package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tenderops/tender-management/internal"
	"github.com/tenderops/tender-management/internal/auth"
	authPostgres "github.com/tenderops/tender-management/internal/auth/postgres"
	"github.com/tenderops/tender-management/internal/core/events"
	"github.com/tenderops/tender-management/internal/history"
	historyPostgres "github.com/tenderops/tender-management/internal/history/postgres"
	"github.com/tenderops/tender-management/internal/instrument"
	instrumentPostgres "github.com/tenderops/tender-management/internal/instrument/postgres"
	"github.com/tenderops/tender-management/internal/request"
	requestPostgres "github.com/tenderops/tender-management/internal/request/postgres"
	"github.com/tenderops/tender-management/internal/transport/rest"
	"github.com/tenderops/tender-management/internal/workflow"
	"github.com/tenderops/tender-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	SQLDB  *sqlx.DB
	DB     *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.SQLDB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func setupRoutes(deps *Dependencies) error {
	privateKey, err := deps.Config.Security.GetPrivateKey()
	if err != nil {
		return fmt.Errorf("load private key: %w", err)
	}
	publicKey, err := deps.Config.Security.GetPublicKey()
	if err != nil {
		return fmt.Errorf("load public key: %w", err)
	}

	bus := events.NewEventBus(deps.Logger)

	tokenGenerator := auth.NewJWTTokenGenerator(privateKey, publicKey, deps.Config.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(deps.DB), tokenGenerator, deps.Logger)
	authHandler := auth.NewHandler(authService)

	requestService := request.NewService(requestPostgres.NewRequestRepository(deps.DB), deps.Logger)
	requestHandler := request.NewHandler(requestService)

	instrumentRepo := instrumentPostgres.NewInstrumentRepository(deps.DB)
	instrumentService := instrument.NewService(instrumentRepo, bus, deps.Logger)
	instrumentHandler := instrument.NewHandler(instrumentService)

	historyService := history.NewService(historyPostgres.NewHistoryRepository(deps.DB), deps.Logger)
	historyHandler := history.NewHandler(historyService)

	workflowHandler := workflow.NewHandler()

	rest.RegisterAllRoutes(
		deps.Router,
		deps.SQLDB.DB,
		authHandler,
		requestHandler,
		instrumentHandler,
		historyHandler,
		workflowHandler,
		deps.Logger,
	)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	sqlDB, gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: lg,
		SQLDB:  sqlDB,
		DB:     gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the connection pool through sqlx over the pgx stdlib driver
// and hands the same pool to GORM.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, *gorm.DB, error) {
	sqlDB, err := sqlx.Connect("pgx", cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return sqlDB, gormDB, nil
}
