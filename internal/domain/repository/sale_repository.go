package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas.
// No expone ninguna operación que modifique UnitCostSnapshot después de crear la venta.
type SaleRepository interface {
	// Create persiste cabecera y líneas de forma atómica.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error)
	// ListByPeriod devuelve las ventas con created_at en [start, end] (ambos inclusive),
	// ordenadas por created_at e id, con sus líneas.
	ListByPeriod(ctx context.Context, businessID string, start, end time.Time) ([]*entity.Sale, error)
}
