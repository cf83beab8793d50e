// Package costing contiene las reglas puras de costeo: validación de costos,
// política de uso del snapshot y aritmética de líneas de rentabilidad.
package costing

import (
	"fmt"

	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Origen del costo unitario usado en una línea de rentabilidad.
const (
	SourceSnapshot = "snapshot" // costo congelado en la venta
	SourceLedger   = "ledger"   // entrada del libro vigente a la fecha de la venta
	SourceCurrent  = "current"  // costo actual del producto (sin historial a esa fecha)
	SourceNone     = "none"     // sin datos de costo: se usa 0
)

// ValidateCost rechaza costos negativos.
func ValidateCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return fmt.Errorf("%w: el costo no puede ser negativo (%s)", domain.ErrValidation, cost.String())
	}
	return nil
}

// NeedsResolution decide si el snapshot de una línea es utilizable.
// Aproximación conocida: un snapshot en 0 es indistinguible de "sin snapshot" y siempre se
// reconstruye, aunque el producto tenga costo cero a propósito.
func NeedsResolution(snapshot *decimal.Decimal) bool {
	return snapshot == nil || snapshot.IsZero()
}

// LineAmounts montos derivados de una línea de venta.
type LineAmounts struct {
	Total  decimal.Decimal // precio * cantidad
	Cost   decimal.Decimal // costo unitario * cantidad
	Profit decimal.Decimal // Total - Cost
}

// ComputeLine calcula total, costo y utilidad de una línea.
func ComputeLine(quantity, unitPrice, unitCost decimal.Decimal) LineAmounts {
	total := unitPrice.Mul(quantity)
	cost := unitCost.Mul(quantity)
	return LineAmounts{Total: total, Cost: cost, Profit: total.Sub(cost)}
}

// NoteFor devuelve la anotación legible para líneas cuyo costo fue reconstruido.
func NoteFor(source string) string {
	switch source {
	case SourceLedger:
		return "(costo histórico usado)"
	case SourceCurrent:
		return "(costo actual usado)"
	case SourceNone:
		return "(sin costo registrado)"
	default:
		return ""
	}
}
