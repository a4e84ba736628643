// Package portfoliov1 describes the PortfolioService gRPC API.
// Messages are plain structs carried by a JSON codec; decimals travel as strings.
package portfoliov1

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type Stock struct {
	Symbol            string                 `json:"symbol"`
	CompanyName       string                 `json:"company_name,omitempty"`
	CurrentPrice      string                 `json:"current_price"`
	PreviousClose     string                 `json:"previous_close"`
	PriceChange       string                 `json:"price_change"`
	ChangePercent     string                 `json:"change_percent"`
	Volume            int64                  `json:"volume"`
	MarketCap         int64                  `json:"market_cap"`
	FiftyTwoWeekRange string                 `json:"fifty_two_week_range,omitempty"`
	Exchange          string                 `json:"exchange"`
	SharesOwned       string                 `json:"shares_owned,omitempty"`   // empty when watch-only
	PurchasePrice     string                 `json:"purchase_price,omitempty"` // empty when watch-only
	LastUpdated       *timestamppb.Timestamp `json:"last_updated,omitempty"`   // nil until first reconcile
}

type Failure struct {
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

type Holding struct {
	Symbol   string `json:"symbol"`
	Shares   string `json:"shares"`
	Value    string `json:"value"`
	Cost     string `json:"cost"`
	GainLoss string `json:"gain_loss"`
	Unpriced bool   `json:"unpriced,omitempty"`
}

type PortfolioSummary struct {
	TotalValue    string     `json:"total_value"`
	TotalInvested string     `json:"total_invested"`
	TotalGainLoss string     `json:"total_gain_loss"`
	ReturnPercent string     `json:"return_percent"`
	Positions     int32      `json:"positions"`
	Holdings      []*Holding `json:"holdings"`
}

type Snapshot struct {
	Id            string                 `json:"id"`
	Date          *timestamppb.Timestamp `json:"date"`
	TotalValue    string                 `json:"total_value"`
	TotalInvested string                 `json:"total_invested"`
	TotalGainLoss string                 `json:"total_gain_loss"`
	ReturnPercent string                 `json:"return_percent"`
	Positions     int32                  `json:"positions"`
}

type ComponentHealth struct {
	Healthy   bool                   `json:"healthy"`
	Probed    bool                   `json:"probed"`
	Error     string                 `json:"error,omitempty"`
	CheckedAt *timestamppb.Timestamp `json:"checked_at,omitempty"`
}

type ListTrackedRequest struct{}

type ListTrackedResponse struct {
	Stocks []*Stock `json:"stocks"`
}

type UpdateAllRequest struct{}

type UpdateSomeRequest struct {
	Symbols []string `json:"symbols"`
}

type UpdateResponse struct {
	RunId   string     `json:"run_id"`
	Updated []string   `json:"updated"`
	Failed  []*Failure `json:"failed"`
}

type AddStockRequest struct {
	Symbol string `json:"symbol"`
}

type AddStockResponse struct {
	Stock *Stock `json:"stock"`
}

// SetPositionRequest sets shares and purchase price, or removes the position when Clear is set.
type SetPositionRequest struct {
	Symbol        string `json:"symbol"`
	SharesOwned   string `json:"shares_owned,omitempty"`
	PurchasePrice string `json:"purchase_price,omitempty"`
	Clear         bool   `json:"clear,omitempty"`
}

type SetPositionResponse struct {
	Stock *Stock `json:"stock"`
}

type GetPortfolioSummaryRequest struct{}

type GetPortfolioSummaryResponse struct {
	Summary *PortfolioSummary `json:"summary"`
}

type CreateSnapshotRequest struct{}

type CreateSnapshotResponse struct {
	Snapshot *Snapshot `json:"snapshot"`
}

type ListSnapshotsRequest struct {
	Limit int32 `json:"limit,omitempty"` // 0 returns all
}

type ListSnapshotsResponse struct {
	Snapshots []*Snapshot `json:"snapshots"`
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status       string                 `json:"status"`
	Store        *ComponentHealth       `json:"store"`
	Quotes       *ComponentHealth       `json:"quotes"`
	Tracked      int32                  `json:"tracked"`
	StaleSymbols []string               `json:"stale_symbols,omitempty"`
	CheckedAt    *timestamppb.Timestamp `json:"checked_at"`
}
