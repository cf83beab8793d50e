package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// SetCostInput cambio de costo de un producto. EffectiveFrom nil = ahora.
type SetCostInput struct {
	BusinessID    string
	ProductID     string
	NewCost       decimal.Decimal
	ActorID       string
	Notes         string
	EffectiveFrom *time.Time
}

// InitializeCostInput entrada inicial de costo (alta de producto o migración).
type InitializeCostInput struct {
	BusinessID  string
	ProductID   string
	InitialCost decimal.Decimal
	ActorID     string
	CreatedAt   time.Time
	Notes       string // vacío = entity.NoteInitialCost
}

// CostStateService mantiene product_cost sincronizado con el libro de costos.
// El libro es la fuente de verdad: siempre se escribe primero.
type CostStateService struct {
	products repository.ProductRepository
	ledger   repository.CostLedgerRepository
	txRunner TxRunner
	log      *logger.Logger
}

// NewCostStateService construye el servicio.
func NewCostStateService(
	products repository.ProductRepository,
	ledger repository.CostLedgerRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *CostStateService {
	return &CostStateService{
		products: products,
		ledger:   ledger,
		txRunner: txRunner,
		log:      log.Component("cost_state"),
	}
}

// SetCost registra un nuevo costo. Devuelve la entrada creada, o nil si el costo no cambió.
// product_cost queda con el costo de Latest() tras agregar la entrada. Dos llamadas concurrentes
// no se serializan: ambas entradas quedan en el libro y product_cost queda con la última escritura.
func (s *CostStateService) SetCost(ctx context.Context, in SetCostInput) (*entity.CostLedgerEntry, error) {
	if err := costing.ValidateCost(in.NewCost); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, in.BusinessID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if current, ok := product.CurrentCost(); ok && current.Equal(in.NewCost) {
		return nil, nil
	}

	now := time.Now().UTC()
	effectiveFrom := now
	if in.EffectiveFrom != nil {
		effectiveFrom = in.EffectiveFrom.UTC()
	}
	notes := in.Notes
	if notes == "" {
		notes = entity.NoteCostUpdate
	}

	entry, err := appendEntry(ctx, s.ledger, AppendInput{
		BusinessID:    in.BusinessID,
		ProductID:     in.ProductID,
		Cost:          in.NewCost,
		EffectiveFrom: effectiveFrom,
		ChangedBy:     in.ActorID,
		Notes:         notes,
	})
	if err != nil {
		return nil, err
	}
	// product_cost refleja la entrada más reciente del libro, no la recién agregada:
	// una entrada con fecha retroactiva no desplaza a otra posterior.
	latest, err := s.ledger.Latest(ctx, in.BusinessID, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("latest cost entry: %w", err)
	}
	current := in.NewCost
	if latest != nil {
		current = latest.Cost
	}
	if err := s.products.UpdateCost(ctx, in.BusinessID, in.ProductID, current, now); err != nil {
		// La entrada ya existe; el resolvedor la usa aunque product_cost quede desactualizado.
		s.log.Error().Err(err).
			Str("business_id", in.BusinessID).
			Str("product_id", in.ProductID).
			Str("ledger_entry_id", entry.ID).
			Msg("product_cost no sincronizado con el libro de costos")
		return nil, fmt.Errorf("update product cost: %w", err)
	}

	s.log.Info().
		Str("business_id", in.BusinessID).
		Str("product_id", in.ProductID).
		Str("actor_id", in.ActorID).
		Str("cost", in.NewCost.String()).
		Str("product_cost", current.String()).
		Time("effective_from", effectiveFrom).
		Msg("costo actualizado")
	return entry, nil
}

// InitializeCost crea la entrada inicial en su propia transacción.
func (s *CostStateService) InitializeCost(ctx context.Context, in InitializeCostInput) (*entity.CostLedgerEntry, error) {
	var entry *entity.CostLedgerEntry
	err := s.txRunner.RunCosting(ctx, func(products repository.ProductRepository, ledger repository.CostLedgerRepository) error {
		var err error
		entry, err = InitializeCostInTx(ctx, products, ledger, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("business_id", in.BusinessID).
		Str("product_id", in.ProductID).
		Str("cost", in.InitialCost.String()).
		Msg("costo inicial registrado")
	return entry, nil
}

// InitializeCostInTx agrega siempre una entrada con effective_from = CreatedAt y fija product_cost,
// usando los repositorios del caller (misma transacción que el alta del producto).
func InitializeCostInTx(
	ctx context.Context,
	products repository.ProductRepository,
	ledger repository.CostLedgerRepository,
	in InitializeCostInput,
) (*entity.CostLedgerEntry, error) {
	notes := in.Notes
	if notes == "" {
		notes = entity.NoteInitialCost
	}
	entry, err := appendEntry(ctx, ledger, AppendInput{
		BusinessID:    in.BusinessID,
		ProductID:     in.ProductID,
		Cost:          in.InitialCost,
		EffectiveFrom: in.CreatedAt,
		ChangedBy:     in.ActorID,
		Notes:         notes,
	})
	if err != nil {
		return nil, err
	}
	if err := products.UpdateCost(ctx, in.BusinessID, in.ProductID, in.InitialCost, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("set initial product cost: %w", err)
	}
	return entry, nil
}

// History historial de costos del producto; ErrNotFound si el producto no existe en el negocio.
func (s *CostStateService) History(ctx context.Context, businessID, productID string) ([]*entity.CostLedgerEntry, error) {
	product, err := s.products.GetByID(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return s.ledger.History(ctx, businessID, productID, MaxHistoryEntries)
}
