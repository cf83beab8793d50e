package costing

import (
	"context"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que un producto nuevo y su entrada inicial de costo se persistan juntos.
type TxRunner interface {
	RunCosting(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.CostLedgerRepository,
	) error) error
}
