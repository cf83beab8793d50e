package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// CostLedgerRepository define el puerto de persistencia del libro de costos (append-only).
// Todas las consultas filtran por businessID. Los empates en EffectiveFrom se resuelven
// a favor de la entrada insertada más recientemente.
type CostLedgerRepository interface {
	// Append inserta una entrada nueva; asigna Seq. Nunca modifica entradas existentes.
	Append(ctx context.Context, entry *entity.CostLedgerEntry) error
	// Latest devuelve la entrada con mayor EffectiveFrom, o nil si no hay historial.
	Latest(ctx context.Context, businessID, productID string) (*entity.CostLedgerEntry, error)
	// EffectiveAt devuelve la entrada con mayor EffectiveFrom <= at, o nil.
	EffectiveAt(ctx context.Context, businessID, productID string, at time.Time) (*entity.CostLedgerEntry, error)
	// History devuelve las entradas de la más reciente a la más antigua (máximo limit).
	History(ctx context.Context, businessID, productID string, limit int) ([]*entity.CostLedgerEntry, error)
}
