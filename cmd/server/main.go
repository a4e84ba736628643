package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"
	grpclib "google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "github.com/simaogato/stocksync-backend/internal/adapter/grpc"
	"github.com/simaogato/stocksync-backend/internal/adapter/grpc/portfoliov1"
	"github.com/simaogato/stocksync-backend/internal/app"
	"github.com/simaogato/stocksync-backend/internal/config"
)

var configFile = flag.String("f", "", "path to the YAML config file (defaults and environment when empty)")

func main() {
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		logx.Must(err)
	}
	app.SetupLogging(cfg.Log)
	defer logx.Close()
	printConfigSummary(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Open store, quote source and services
	a, err := app.Build(ctx, cfg)
	if err != nil {
		logx.Errorf("Failed to initialise services: %v", err)
		os.Exit(1)
	}
	defer a.Close()

	// Seed the configured watchlist
	created, err := a.Seed(ctx)
	if err != nil {
		logx.Errorf("Failed to seed stocks: %v", err)
		os.Exit(1)
	}
	if len(created) > 0 {
		logx.Infow("seeded stocks", logx.Field("symbols", created))
	}

	// 3. Start gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.UnaryInterceptor(grpcadapter.AuthInterceptor(cfg.GRPC.APIToken)),
	)

	portfoliov1.RegisterPortfolioServiceServer(grpcServer, grpcadapter.NewServer(a.Portfolio, a.Health))

	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	grpcadapter.RegisterReflection(grpcServer)

	if cfg.Health.Interval > 0 {
		go grpcadapter.WatchHealth(ctx, cfg.Health.Interval, a.Health, healthServer)
	} else {
		grpcadapter.ReportHealth(ctx, a.Health, healthServer)
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		logx.Errorf("Failed to listen on %s: %v", cfg.GRPC.Addr, err)
		os.Exit(1)
	}

	go func() {
		logx.Infof("gRPC server listening on %s", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			logx.Errorf("Failed to serve gRPC server: %v", err)
			cancel()
		}
	}()

	// Graceful shutdown
	waitForShutdown(ctx, grpcServer, healthServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(ctx context.Context, grpcServer *grpclib.Server, healthServer *grpchealth.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		logx.Infof("Received signal: %v. Shutting down gracefully...", sig)
	case <-ctx.Done():
		logx.Info("Server stopped unexpectedly. Shutting down...")
	}

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	logx.Info("gRPC server stopped")
}

func printConfigSummary(cfg *config.Config) {
	store := cfg.Store.Driver
	if cfg.Store.Driver == config.DriverSQLite {
		store += " " + cfg.Store.SQLitePath
	}
	probe := cfg.Health.ProbeSymbol
	if probe == "" {
		probe = "passive"
	}
	logx.Infof("config • store=%s • grpc=%s • fan-out=%d • quotes=%s (%.2g rps, burst %d, retries %d, cache %s) • stale-after=%s • probe=%s • seeds=%s",
		store, cfg.GRPC.Addr, cfg.Reconcile.MaxConcurrency, cfg.Quotes.BaseURL,
		cfg.Quotes.RequestsPerSecond, cfg.Quotes.Burst, cfg.Quotes.MaxRetries, cfg.Quotes.CacheTTL,
		cfg.Health.StaleAfter, probe, strings.Join(cfg.SeedSymbols, ","))
}
