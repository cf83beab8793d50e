package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera de una venta POS.
type Sale struct {
	ID         string
	BusinessID string
	CreatedBy  string
	Total      decimal.Decimal
	CreatedAt  time.Time
	Items      []SaleItem
}

// SaleItem línea de venta. UnitCostSnapshot se congela al crear la venta y no se modifica después;
// nil (o 0 en datos heredados) significa que no hay snapshot utilizable.
type SaleItem struct {
	ID               string
	SaleID           string
	ProductID        string
	ProductName      string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	UnitCostSnapshot *decimal.Decimal
}
