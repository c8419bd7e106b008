package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpadapter "github.com/insurepro/regcalc-backend/internal/adapter/http"
	"github.com/insurepro/regcalc-backend/internal/adapter/repository/postgres"
	"github.com/insurepro/regcalc-backend/internal/config"
	"github.com/insurepro/regcalc-backend/internal/domain"
	"github.com/insurepro/regcalc-backend/internal/usecase/suite"
)

const (
	defaultAPIToken = "dev-token"
	defaultHTTPAddr = ":8080"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. Regulatory parameters: built-in defaults, optionally overridden
	// by a YAML file for jurisdiction recalibration.
	params := domain.DefaultRegulatoryParams()
	if path := os.Getenv("REGULATORY_PARAMS_FILE"); path != "" {
		params, err = config.LoadRegulatoryParams(path)
		if err != nil {
			logger.Fatal("failed to load regulatory parameters", zap.String("path", path), zap.Error(err))
		}
		logger.Info("regulatory parameters loaded", zap.String("path", path))
	}

	// 2. Setup Database
	dbConnStr := os.Getenv("DB_CONN_STR")
	if dbConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost" // Default for local run without docker
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "regcalc"
		}

		dbConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port, user, password, dbname)
	}

	db, err := postgres.NewDB(dbConnStr)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// 3. Initialize Repositories (Postgres)
	runRepo := postgres.NewCalculationRunRepository(db)
	auditRepo := postgres.NewAuditLogRepository(db)

	// 4. Initialize the suite service and HTTP surface
	suiteService := suite.NewService(params, runRepo, auditRepo)
	handler := httpadapter.NewCalculationHandler(suiteService, logger)

	apiToken := os.Getenv("API_TOKEN")
	if apiToken == "" {
		apiToken = defaultAPIToken
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = defaultHTTPAddr
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           httpadapter.NewRouter(handler, logger, apiToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *http.Server, logger *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}
