// Package report calcula la rentabilidad por línea de venta de un período y la exporta.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CostResolver reconstruye el costo vigente de un producto en una fecha.
type CostResolver interface {
	ResolveWithSource(ctx context.Context, businessID, productID string, asOf time.Time) (decimal.Decimal, string, error)
}

// ProfitLine una fila del reporte por cada línea de venta.
type ProfitLine struct {
	SaleID        string
	SaleDate      time.Time
	ProductID     string
	ProductName   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	UnitCost      decimal.Decimal
	LineTotal     decimal.Decimal
	LineCost      decimal.Decimal
	LineProfit    decimal.Decimal
	CostSource    string // costing.SourceSnapshot, SourceLedger, SourceCurrent o SourceNone
	Reconstructed bool
	Note          string
}

// ProfitTotals sumas exactas de las líneas.
type ProfitTotals struct {
	TotalSales  decimal.Decimal
	TotalCost   decimal.Decimal
	TotalProfit decimal.Decimal
	TotalItems  decimal.Decimal // suma de cantidades
	SaleCount   int
}

// ProfitAggregator recorre las ventas del período y atribuye costo a cada línea.
type ProfitAggregator struct {
	sales    repository.SaleRepository
	resolver CostResolver
}

// NewProfitAggregator construye el agregador.
func NewProfitAggregator(sales repository.SaleRepository, resolver CostResolver) *ProfitAggregator {
	return &ProfitAggregator{sales: sales, resolver: resolver}
}

// Aggregate devuelve una línea por cada línea de venta con created_at en [start, end] y los totales.
// Usa el snapshot de la línea si es utilizable; si no, el costo vigente a la fecha de la venta.
// Entradas del libro posteriores a la venta nunca afectan el resultado.
func (a *ProfitAggregator) Aggregate(ctx context.Context, businessID string, start, end time.Time) ([]ProfitLine, ProfitTotals, error) {
	totals := ProfitTotals{
		TotalSales:  decimal.Zero,
		TotalCost:   decimal.Zero,
		TotalProfit: decimal.Zero,
		TotalItems:  decimal.Zero,
	}
	if start.After(end) {
		return nil, totals, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}

	sales, err := a.sales.ListByPeriod(ctx, businessID, start, end)
	if err != nil {
		return nil, totals, fmt.Errorf("listar ventas: %w", err)
	}

	lines := make([]ProfitLine, 0)
	for _, sale := range sales {
		totals.SaleCount++
		for _, item := range sale.Items {
			unitCost, source := decimal.Zero, costing.SourceSnapshot
			if costing.NeedsResolution(item.UnitCostSnapshot) {
				unitCost, source, err = a.resolver.ResolveWithSource(ctx, businessID, item.ProductID, sale.CreatedAt)
				if err != nil {
					return nil, totals, err
				}
			} else {
				unitCost = *item.UnitCostSnapshot
			}

			amounts := costing.ComputeLine(item.Quantity, item.UnitPrice, unitCost)
			lines = append(lines, ProfitLine{
				SaleID:        sale.ID,
				SaleDate:      sale.CreatedAt,
				ProductID:     item.ProductID,
				ProductName:   item.ProductName,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
				UnitCost:      unitCost,
				LineTotal:     amounts.Total,
				LineCost:      amounts.Cost,
				LineProfit:    amounts.Profit,
				CostSource:    source,
				Reconstructed: source != costing.SourceSnapshot,
				Note:          costing.NoteFor(source),
			})
			totals.TotalSales = totals.TotalSales.Add(amounts.Total)
			totals.TotalCost = totals.TotalCost.Add(amounts.Cost)
			totals.TotalProfit = totals.TotalProfit.Add(amounts.Profit)
			totals.TotalItems = totals.TotalItems.Add(item.Quantity)
		}
	}
	return lines, totals, nil
}
