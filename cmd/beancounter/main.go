package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/umpyre-code/beancounter/internal/config"
	"github.com/umpyre-code/beancounter/internal/database"
	"github.com/umpyre-code/beancounter/internal/escrow"
	"github.com/umpyre-code/beancounter/internal/grpcserver"
	"github.com/umpyre-code/beancounter/internal/grpcutil"
	"github.com/umpyre-code/beancounter/internal/ledger"
	"github.com/umpyre-code/beancounter/internal/logging"
	"github.com/umpyre-code/beancounter/internal/monitoring"
	"github.com/umpyre-code/beancounter/internal/payments"
	"github.com/umpyre-code/beancounter/internal/pb"
	"github.com/umpyre-code/beancounter/internal/ral"
	"github.com/umpyre-code/beancounter/internal/store"
)

func main() {
	logger := logging.NewLoggerWithService("beancounter")
	config.LoadEnv(logger)

	logger.Info("Starting BeanCounter (ledger and payments)")

	dbURL := config.RequireEnv("DATABASE_URL")
	grpcPort := config.GetEnv("BEANCOUNTER_GRPC_PORT", "19010")
	healthPort := config.GetEnv("BEANCOUNTER_HEALTH_PORT", "18010")
	feeRateBPS := int64(config.GetEnvInt("FEE_RATE_BPS", ledger.DefaultFeeRateBPS))
	ralWindowSize := config.GetEnvInt("RAL_WINDOW_SIZE", ral.DefaultWindowSize)
	ralMinSamples := config.GetEnvInt("RAL_MIN_SAMPLES", ral.DefaultMinSamples)

	dbConfig := database.DefaultConfig()
	dbConfig.URL = dbURL
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()

	healthChecker := monitoring.NewHealthChecker("beancounter")
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))

	metricsCollector := monitoring.NewMetricsCollector("beancounter")
	ledgerMetrics := monitoring.NewLedgerMetrics(metricsCollector)

	pgStore := store.NewPostgresStore(db)
	ledgerEngine := ledger.New(pgStore, feeRateBPS)
	escrowMachine := escrow.New(ledgerEngine, pgStore)
	ralComputer := ral.New(pgStore, ralWindowSize, ralMinSamples, logger, ledgerMetrics)

	stripeClient := payments.NewStripe(payments.Config{
		SecretKey:           config.GetEnv("STRIPE_SECRET_KEY", ""),
		ConnectClientID:     config.GetEnv("STRIPE_CONNECT_CLIENT_ID", ""),
		ConnectClientSecret: config.GetEnv("STRIPE_CONNECT_CLIENT_SECRET", ""),
		ConnectRedirectURI:  config.GetEnv("STRIPE_CONNECT_REDIRECT_URI", ""),
		Logger:              logger,
	})
	connectAccounts := payments.NewConnectAccounts(pgStore, stripeClient)

	rpcServer := grpcserver.New(pgStore, ledgerEngine, escrowMachine, ralComputer, stripeClient, stripeClient, connectAccounts, healthChecker, logger)

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpcutil.SanitizeUnaryServerInterceptor()),
	)
	pb.RegisterBeanCounterServer(grpcSrv, rpcServer)

	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, hs)

	go func() {
		lis, err := net.Listen("tcp", ":"+grpcPort)
		if err != nil {
			logger.WithError(err).Fatal("Failed to listen on gRPC port")
		}
		logger.WithField("port", grpcPort).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logger.WithError(err).Fatal("gRPC server failed")
		}
	}()

	httpMux := http.NewServeMux()
	httpMux.Handle("/metrics", promhttp.HandlerFor(metricsCollector.Registry(), promhttp.HandlerOpts{}))
	httpMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !healthChecker.Serving() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": monitoring.StatusUnhealthy})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": monitoring.StatusHealthy})
	})
	httpSrv := &http.Server{Addr: ":" + healthPort, Handler: httpMux}

	go func() {
		logger.WithField("port", healthPort).Info("Starting health/metrics server")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("health/metrics server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")
	grpcSrv.GracefulStop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}
