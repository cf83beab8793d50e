package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitReportQuery parámetros de GET /api/reports/profit.
type ProfitReportQuery struct {
	StartDate string `query:"start_date" validate:"required"`
	EndDate   string `query:"end_date" validate:"required"`
	Format    string `query:"format"`
}

// ProfitReportResponse rentabilidad del período (formato json).
type ProfitReportResponse struct {
	BusinessName string          `json:"business_name"`
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	GeneratedAt  time.Time       `json:"generated_at"`
	GeneratedBy  string          `json:"generated_by"`
	Lines        []ProfitLineDTO `json:"lines"`
	Totals       ProfitTotalsDTO `json:"totals"`
}

// ProfitLineDTO línea de rentabilidad. Reconstructed indica que el costo no venía del snapshot.
type ProfitLineDTO struct {
	SaleID        string          `json:"sale_id"`
	SaleDate      time.Time       `json:"sale_date"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	LineTotal     decimal.Decimal `json:"line_total"`
	LineCost      decimal.Decimal `json:"line_cost"`
	LineProfit    decimal.Decimal `json:"line_profit"`
	CostSource    string          `json:"cost_source"`
	Reconstructed bool            `json:"reconstructed"`
	Note          string          `json:"note,omitempty"`
}

// ProfitTotalsDTO totales del período.
type ProfitTotalsDTO struct {
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	TotalProfit decimal.Decimal `json:"total_profit"`
	TotalItems  decimal.Decimal `json:"total_items"`
	SaleCount   int             `json:"sale_count"`
}
