package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Rentabilidad-api/internal/application/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	domaincosting "github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso de productos. Todo cambio de costo pasa por el libro de costos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	txRunner  costing.TxRunner
	costState *costing.CostStateService
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner costing.TxRunner, costState *costing.CostStateService) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, costState: costState}
}

// Create crea el producto y su entrada inicial de costo en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, businessID, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	initialCost := decimal.Zero
	if in.InitialCost != nil {
		initialCost = *in.InitialCost
	}
	if err := domaincosting.ValidateCost(initialCost); err != nil {
		return nil, err
	}
	if in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByBusinessAndSKU(ctx, businessID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		SKU:        in.SKU,
		Name:       in.Name,
		Price:      in.Price,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.RunCosting(ctx, func(products repository.ProductRepository, ledger repository.CostLedgerRepository) error {
		if err := products.Create(ctx, product); err != nil {
			return err
		}
		_, err := costing.InitializeCostInTx(ctx, products, ledger, costing.InitializeCostInput{
			BusinessID:  businessID,
			ProductID:   product.ID,
			InitialCost: initialCost,
			ActorID:     userID,
			CreatedAt:   now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	product.ProductCost = &initialCost
	return toProductResponse(product), nil
}

// GetByID obtiene un producto del negocio.
func (uc *ProductUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre y precio; si llega product_cost se registra vía SetCost.
func (uc *ProductUseCase) Update(ctx context.Context, businessID, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.ProductCost != nil {
		if err := domaincosting.ValidateCost(*in.ProductCost); err != nil {
			return nil, err
		}
	}

	changed := false
	if in.Name != nil {
		product.Name = *in.Name
		changed = true
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
		changed = true
	}
	if changed {
		product.UpdatedAt = time.Now().UTC()
		if err := uc.repo.Update(ctx, product); err != nil {
			return nil, err
		}
	}
	if in.ProductCost != nil {
		if _, err := uc.costState.SetCost(ctx, costing.SetCostInput{
			BusinessID: businessID,
			ProductID:  id,
			NewCost:    *in.ProductCost,
			ActorID:    userID,
			Notes:      in.Notes,
		}); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(ctx, businessID, id)
}

// SetCost cambio explícito de costo (PUT /products/:id/cost).
func (uc *ProductUseCase) SetCost(ctx context.Context, businessID, userID, id string, in dto.SetCostRequest) (*dto.SetCostResponse, error) {
	entry, err := uc.costState.SetCost(ctx, costing.SetCostInput{
		BusinessID:    businessID,
		ProductID:     id,
		NewCost:       in.Cost,
		ActorID:       userID,
		Notes:         in.Notes,
		EffectiveFrom: in.EffectiveFrom,
	})
	if err != nil {
		return nil, err
	}
	product, err := uc.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := &dto.SetCostResponse{Changed: entry != nil, Product: product}
	if entry != nil {
		e := toCostHistoryEntry(entry)
		out.Entry = &e
	}
	return out, nil
}

// CostHistory historial de costos del producto, del más reciente al más antiguo.
func (uc *ProductUseCase) CostHistory(ctx context.Context, businessID, id string) ([]dto.CostHistoryEntryResponse, error) {
	entries, err := uc.costState.History(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CostHistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCostHistoryEntry(e))
	}
	return out, nil
}

// List lista productos por negocio con paginación.
func (uc *ProductUseCase) List(ctx context.Context, businessID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByBusiness(ctx, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		BusinessID:  p.BusinessID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		ProductCost: p.ProductCost,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toCostHistoryEntry(e *entity.CostLedgerEntry) dto.CostHistoryEntryResponse {
	return dto.CostHistoryEntryResponse{
		ID:            e.ID,
		Cost:          e.Cost,
		EffectiveFrom: e.EffectiveFrom,
		ChangedBy:     e.ChangedBy,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
	}
}
