package costing

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Snapshotter congela el costo actual del producto en cada línea de venta.
type Snapshotter struct {
	products repository.ProductRepository
}

// NewSnapshotter construye el snapshotter.
func NewSnapshotter(products repository.ProductRepository) *Snapshotter {
	return &Snapshotter{products: products}
}

// StampSnapshot devuelve el costo unitario a guardar en la línea. Producto inexistente o sin
// costo devuelve 0: la venta no se bloquea por falta de datos de costo.
func (s *Snapshotter) StampSnapshot(ctx context.Context, businessID, productID string) (decimal.Decimal, error) {
	product, err := s.products.GetByID(ctx, businessID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	cost, _ := product.CurrentCost()
	return cost, nil
}
