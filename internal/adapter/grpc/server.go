package grpc

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/simaogato/stocksync-backend/internal/adapter/grpc/portfoliov1"
	"github.com/simaogato/stocksync-backend/internal/domain"
	"github.com/simaogato/stocksync-backend/internal/usecase/health"
	"github.com/simaogato/stocksync-backend/internal/usecase/portfolio"
	"github.com/simaogato/stocksync-backend/internal/usecase/reconciler"
)

// Server implements the PortfolioService gRPC server
type Server struct {
	portfoliov1.UnimplementedPortfolioServiceServer

	PortfolioService *portfolio.PortfolioService
	HealthService    *health.HealthService
}

// NewServer creates a new gRPC server instance
func NewServer(portfolioService *portfolio.PortfolioService, healthService *health.HealthService) *Server {
	return &Server{
		PortfolioService: portfolioService,
		HealthService:    healthService,
	}
}

// ListTracked handles the ListTracked RPC
func (s *Server) ListTracked(ctx context.Context, req *portfoliov1.ListTrackedRequest) (*portfoliov1.ListTrackedResponse, error) {
	records, err := s.PortfolioService.ListTracked(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	stocks := make([]*portfoliov1.Stock, 0, len(records))
	for _, record := range records {
		stocks = append(stocks, domainStockToProto(record))
	}
	return &portfoliov1.ListTrackedResponse{Stocks: stocks}, nil
}

// UpdateAll handles the UpdateAll RPC
func (s *Server) UpdateAll(ctx context.Context, req *portfoliov1.UpdateAllRequest) (*portfoliov1.UpdateResponse, error) {
	result, err := s.PortfolioService.UpdateAll(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resultToProto(result), nil
}

// UpdateSome handles the UpdateSome RPC
func (s *Server) UpdateSome(ctx context.Context, req *portfoliov1.UpdateSomeRequest) (*portfoliov1.UpdateResponse, error) {
	result, err := s.PortfolioService.UpdateSome(ctx, req.Symbols)
	if err != nil {
		return nil, mapError(err)
	}
	return resultToProto(result), nil
}

// AddStock handles the AddStock RPC
func (s *Server) AddStock(ctx context.Context, req *portfoliov1.AddStockRequest) (*portfoliov1.AddStockResponse, error) {
	record, err := s.PortfolioService.AddStock(ctx, req.Symbol)
	if err != nil {
		return nil, mapError(err)
	}
	return &portfoliov1.AddStockResponse{Stock: domainStockToProto(record)}, nil
}

// SetPosition handles the SetPosition RPC
func (s *Server) SetPosition(ctx context.Context, req *portfoliov1.SetPositionRequest) (*portfoliov1.SetPositionResponse, error) {
	if req.Clear {
		record, err := s.PortfolioService.ClearPosition(ctx, req.Symbol)
		if err != nil {
			return nil, mapError(err)
		}
		return &portfoliov1.SetPositionResponse{Stock: domainStockToProto(record)}, nil
	}

	// Parse decimals from strings
	shares, err := decimal.NewFromString(req.SharesOwned)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid shares_owned format: %v", err)
	}
	purchasePrice, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid purchase_price format: %v", err)
	}

	record, err := s.PortfolioService.SetPosition(ctx, req.Symbol, shares, purchasePrice)
	if err != nil {
		return nil, mapError(err)
	}
	return &portfoliov1.SetPositionResponse{Stock: domainStockToProto(record)}, nil
}

// GetPortfolioSummary handles the GetPortfolioSummary RPC
func (s *Server) GetPortfolioSummary(ctx context.Context, req *portfoliov1.GetPortfolioSummaryRequest) (*portfoliov1.GetPortfolioSummaryResponse, error) {
	summary, err := s.PortfolioService.PortfolioSummary(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	holdings := make([]*portfoliov1.Holding, 0, len(summary.Holdings))
	for _, h := range summary.Holdings {
		holdings = append(holdings, &portfoliov1.Holding{
			Symbol:   h.Symbol,
			Shares:   h.Shares.String(),
			Value:    h.Value.StringFixed(2),
			Cost:     h.Cost.StringFixed(2),
			GainLoss: h.GainLoss.StringFixed(2),
			Unpriced: h.Unpriced,
		})
	}

	return &portfoliov1.GetPortfolioSummaryResponse{
		Summary: &portfoliov1.PortfolioSummary{
			TotalValue:    summary.TotalValue.StringFixed(2),
			TotalInvested: summary.TotalInvested.StringFixed(2),
			TotalGainLoss: summary.TotalGainLoss.StringFixed(2),
			ReturnPercent: summary.ReturnPercent.StringFixed(2),
			Positions:     int32(summary.Positions),
			Holdings:      holdings,
		},
	}, nil
}

// CreateSnapshot handles the CreateSnapshot RPC
func (s *Server) CreateSnapshot(ctx context.Context, req *portfoliov1.CreateSnapshotRequest) (*portfoliov1.CreateSnapshotResponse, error) {
	snapshot, err := s.PortfolioService.CreateSnapshot(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return &portfoliov1.CreateSnapshotResponse{Snapshot: domainSnapshotToProto(snapshot)}, nil
}

// ListSnapshots handles the ListSnapshots RPC
func (s *Server) ListSnapshots(ctx context.Context, req *portfoliov1.ListSnapshotsRequest) (*portfoliov1.ListSnapshotsResponse, error) {
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	snapshots, err := s.PortfolioService.SnapshotHistory(ctx, int(req.Limit))
	if err != nil {
		return nil, mapError(err)
	}

	protoSnapshots := make([]*portfoliov1.Snapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		protoSnapshots = append(protoSnapshots, domainSnapshotToProto(snapshot))
	}
	return &portfoliov1.ListSnapshotsResponse{Snapshots: protoSnapshots}, nil
}

// HealthCheck handles the HealthCheck RPC. A degraded report is still a successful call.
func (s *Server) HealthCheck(ctx context.Context, req *portfoliov1.HealthCheckRequest) (*portfoliov1.HealthCheckResponse, error) {
	report := s.HealthService.Check(ctx)

	return &portfoliov1.HealthCheckResponse{
		Status:       string(report.Status),
		Store:        probeToProto(report.Store, true),
		Quotes:       probeToProto(report.Quotes, report.QuotesProbed),
		Tracked:      int32(report.Tracked),
		StaleSymbols: report.StaleSymbols,
		CheckedAt:    timestamppb.New(report.CheckedAt),
	}, nil
}

// domainStockToProto converts a domain StockRecord to a proto Stock message
func domainStockToProto(record *domain.StockRecord) *portfoliov1.Stock {
	stock := &portfoliov1.Stock{
		Symbol:            record.Symbol,
		CompanyName:       record.CompanyName,
		CurrentPrice:      record.CurrentPrice.String(),
		PreviousClose:     record.PreviousClose.String(),
		PriceChange:       record.PriceChange.String(),
		ChangePercent:     record.ChangePercent.StringFixed(2),
		Volume:            record.Volume,
		MarketCap:         record.MarketCap,
		FiftyTwoWeekRange: record.FiftyTwoWeekRange,
		Exchange:          string(record.Exchange),
	}

	if record.SharesOwned.Valid {
		stock.SharesOwned = record.SharesOwned.Decimal.String()
	}
	if record.PurchasePrice.Valid {
		stock.PurchasePrice = record.PurchasePrice.Decimal.String()
	}
	if !record.LastUpdated.IsZero() {
		stock.LastUpdated = timestamppb.New(record.LastUpdated)
	}

	return stock
}

// domainSnapshotToProto converts a domain PortfolioSnapshot to a proto Snapshot message
func domainSnapshotToProto(snapshot *domain.PortfolioSnapshot) *portfoliov1.Snapshot {
	return &portfoliov1.Snapshot{
		Id:            snapshot.ID.String(),
		Date:          timestamppb.New(snapshot.Date),
		TotalValue:    snapshot.TotalValue.StringFixed(2),
		TotalInvested: snapshot.TotalInvested.StringFixed(2),
		TotalGainLoss: snapshot.TotalGainLoss.StringFixed(2),
		ReturnPercent: snapshot.ReturnPercent.StringFixed(2),
		Positions:     int32(snapshot.Positions),
	}
}

func resultToProto(result *reconciler.Result) *portfoliov1.UpdateResponse {
	symbols := make([]string, 0, len(result.Failed))
	for symbol := range result.Failed {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	failed := make([]*portfoliov1.Failure, 0, len(symbols))
	for _, symbol := range symbols {
		failure := result.Failed[symbol]
		failed = append(failed, &portfoliov1.Failure{
			Symbol: symbol,
			Kind:   string(failure.Kind),
			Reason: failure.Reason,
		})
	}

	updated := result.Updated
	if updated == nil {
		updated = []string{}
	}
	return &portfoliov1.UpdateResponse{
		RunId:   result.RunID.String(),
		Updated: updated,
		Failed:  failed,
	}
}

func probeToProto(probe health.Probe, probed bool) *portfoliov1.ComponentHealth {
	component := &portfoliov1.ComponentHealth{
		Healthy: probe.Healthy,
		Probed:  probed,
		Error:   probe.Error,
	}
	if !probe.CheckedAt.IsZero() {
		component.CheckedAt = timestamppb.New(probe.CheckedAt)
	}
	return component
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch domain.KindOf(err) {
	case domain.KindValidationError:
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case domain.KindNotFound:
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case domain.KindRateLimited:
		return status.Errorf(codes.ResourceExhausted, "%s", err.Error())
	case domain.KindStoreUnavailable:
		return status.Errorf(codes.Unavailable, "%s", err.Error())
	default:
		return status.Errorf(codes.Internal, "%s", err.Error())
	}
}
