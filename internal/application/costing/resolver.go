package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Resolver reconstruye el costo vigente de un producto en una fecha pasada.
type Resolver struct {
	ledger   repository.CostLedgerRepository
	products repository.ProductRepository
}

// NewResolver construye el resolvedor.
func NewResolver(ledger repository.CostLedgerRepository, products repository.ProductRepository) *Resolver {
	return &Resolver{ledger: ledger, products: products}
}

// Resolve devuelve el costo vigente en asOf: libro, luego costo actual, luego 0.
// Solo falla por errores de almacenamiento.
func (r *Resolver) Resolve(ctx context.Context, businessID, productID string, asOf time.Time) (decimal.Decimal, error) {
	cost, _, err := r.ResolveWithSource(ctx, businessID, productID, asOf)
	return cost, err
}

// ResolveWithSource igual que Resolve, indicando de dónde salió el costo
// (costing.SourceLedger, SourceCurrent o SourceNone).
func (r *Resolver) ResolveWithSource(ctx context.Context, businessID, productID string, asOf time.Time) (decimal.Decimal, string, error) {
	entry, err := r.ledger.EffectiveAt(ctx, businessID, productID, asOf)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("resolve cost: %w", err)
	}
	if entry != nil {
		return entry.Cost, costing.SourceLedger, nil
	}
	product, err := r.products.GetByID(ctx, businessID, productID)
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("resolve cost: %w", err)
	}
	if cost, ok := product.CurrentCost(); ok {
		return cost, costing.SourceCurrent, nil
	}
	return decimal.Zero, costing.SourceNone, nil
}
