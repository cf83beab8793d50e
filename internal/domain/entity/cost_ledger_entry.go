package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Notas estándar del libro de costos.
const (
	NoteInitialCost   = "Initial cost entry"
	NoteMigrationCost = "Migration: Initial cost entry from legacy system"
	NoteCostUpdate    = "Cost update"
)

// CostLedgerEntry es un registro inmutable del historial de costos de un producto.
// Nunca se actualiza ni se elimina (append-only).
type CostLedgerEntry struct {
	ID            string
	BusinessID    string
	ProductID     string
	Cost          decimal.Decimal
	EffectiveFrom time.Time // desde cuándo este costo se considera vigente
	ChangedBy     string    // usuario que originó el cambio (o admin de respaldo en migraciones)
	Notes         string
	CreatedAt     time.Time
	Seq           int64 // orden de inserción; desempata EffectiveFrom iguales (gana el último)
}
