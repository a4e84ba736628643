package grpc

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/simaogato/stocksync-backend/internal/adapter/grpc/portfoliov1"
	"github.com/simaogato/stocksync-backend/internal/usecase/health"
)

// ReportHealth runs one health check and publishes the verdict on the standard
// grpc health service, both for the overall server and for PortfolioService.
// A degraded report maps to NOT_SERVING.
func ReportHealth(ctx context.Context, healthService *health.HealthService, healthServer *grpchealth.Server) *health.Report {
	report := healthService.Check(ctx)

	servingStatus := healthpb.HealthCheckResponse_SERVING
	if report.Status != health.StatusOK {
		servingStatus = healthpb.HealthCheckResponse_NOT_SERVING
	}
	healthServer.SetServingStatus("", servingStatus)
	healthServer.SetServingStatus(portfoliov1.ServiceName, servingStatus)

	return report
}

// WatchHealth refreshes the health service every interval until ctx is done.
func WatchHealth(ctx context.Context, interval time.Duration, healthService *health.HealthService, healthServer *grpchealth.Server) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last health.Status
	for {
		report := ReportHealth(ctx, healthService, healthServer)
		if report.Status != last {
			logx.WithContext(ctx).Infow("health status changed",
				logx.Field("status", string(report.Status)),
				logx.Field("store_error", report.Store.Error),
				logx.Field("quotes_error", report.Quotes.Error),
				logx.Field("stale", len(report.StaleSymbols)),
			)
			last = report.Status
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
