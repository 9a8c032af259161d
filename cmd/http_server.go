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
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/velonis/field-reports/internal"
	"github.com/velonis/field-reports/internal/auth"
	authPostgres "github.com/velonis/field-reports/internal/auth/postgres"
	"github.com/velonis/field-reports/internal/export"
	"github.com/velonis/field-reports/internal/report"
	reportPostgres "github.com/velonis/field-reports/internal/report/postgres"
	"github.com/velonis/field-reports/internal/storage"
	"github.com/velonis/field-reports/internal/transport/rest"
	"github.com/velonis/field-reports/internal/user"
	userPostgres "github.com/velonis/field-reports/internal/user/postgres"
	"github.com/velonis/field-reports/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
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
		deps.Logger.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
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

func initializeDependencies() (*dependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.Env)
	lg := logger.L()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	fileStore, err := storage.NewStore(cfg.Storage.UploadDir, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize attachment store: %w", err)
	}

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.TokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokens)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), cfg.Security.BCryptCost, lg)
	userHandler := user.NewHandler(userService)

	reportService := report.NewService(reportPostgres.NewReportRepository(gormDB), fileStore, userService, lg)
	reportHandler := report.NewHandler(reportService)
	exportHandler := export.NewHandler(reportService)

	router := chi.NewRouter()
	rest.RegisterRoutes(router, rest.RouterConfig{
		DB:             db.DB,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		UploadDir:      fileStore.Dir(),
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		ReportHandler:  reportHandler,
		ExportHandler:  exportHandler,
		Logger:         lg,
	})

	return &dependencies{
		Config: cfg,
		DB:     db,
		Router: router,
		Logger: lg,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
