package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe en el negocio.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Product, error)
	GetByBusinessAndSKU(ctx context.Context, businessID, sku string) (*entity.Product, error)
	// Update actualiza datos descriptivos (nombre, precio). No toca product_cost.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateCost actualiza solo el costo actual y updated_at.
	UpdateCost(ctx context.Context, businessID, productID string, cost decimal.Decimal, updatedAt time.Time) error
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Product, error)
}
