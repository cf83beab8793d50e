package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de un negocio (solo campos relevantes para costeo).
// ProductCost refleja la última entrada del libro de costos; nil solo antes de la primera entrada.
type Product struct {
	ID          string
	BusinessID  string
	SKU         string
	Name        string
	Price       decimal.Decimal  // precio de venta
	ProductCost *decimal.Decimal // costo actual
	LegacyCost  *decimal.Decimal // campo "cost" obsoleto de datos heredados
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CurrentCost devuelve el costo actual y si está definido.
func (p *Product) CurrentCost() (decimal.Decimal, bool) {
	if p == nil || p.ProductCost == nil {
		return decimal.Zero, false
	}
	return *p.ProductCost, true
}
