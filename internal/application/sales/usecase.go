// Package sales registra ventas POS congelando el costo unitario de cada línea.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CostSnapshotter devuelve el costo a congelar en una línea de venta.
type CostSnapshotter interface {
	StampSnapshot(ctx context.Context, businessID, productID string) (decimal.Decimal, error)
}

// SaleUseCase crea y consulta ventas.
type SaleUseCase struct {
	sales       repository.SaleRepository
	products    repository.ProductRepository
	snapshotter CostSnapshotter
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(sales repository.SaleRepository, products repository.ProductRepository, snapshotter CostSnapshotter) *SaleUseCase {
	return &SaleUseCase{sales: sales, products: products, snapshotter: snapshotter}
}

// CreateSale valida las líneas, congela el costo de cada una y persiste la venta atómicamente.
// Un producto sin costo no bloquea la venta: su snapshot queda en 0.
func (uc *SaleUseCase) CreateSale(ctx context.Context, businessID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	sale := &entity.Sale{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		CreatedBy:  userID,
		CreatedAt:  now,
		Items:      make([]entity.SaleItem, 0, len(in.Items)),
	}
	total := decimal.Zero
	for i, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad inválida en la línea %d", domain.ErrInvalidInput, i+1)
		}
		product, err := uc.products.GetByID(ctx, businessID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		price := product.Price
		if it.UnitPrice != nil {
			if it.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("%w: precio negativo en la línea %d", domain.ErrInvalidInput, i+1)
			}
			price = *it.UnitPrice
		}
		snapshot, err := uc.snapshotter.StampSnapshot(ctx, businessID, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("snapshot de costo: %w", err)
		}
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:               uuid.New().String(),
			SaleID:           sale.ID,
			ProductID:        product.ID,
			ProductName:      product.Name,
			Quantity:         it.Quantity,
			UnitPrice:        price,
			UnitCostSnapshot: &snapshot,
		})
		total = total.Add(price.Mul(it.Quantity))
	}
	sale.Total = total

	if err := uc.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// GetSale obtiene una venta del negocio.
func (uc *SaleUseCase) GetSale(ctx context.Context, businessID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			UnitCostSnapshot: it.UnitCostSnapshot,
		})
	}
	return &dto.SaleResponse{
		ID:        s.ID,
		CreatedBy: s.CreatedBy,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
		Items:     items,
	}
}
