// Package costing orquesta el historial de costos: libro append-only, sincronización del
// costo actual del producto, snapshot en ventas y reconstrucción del costo vigente a una fecha.
package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// MaxHistoryEntries tope de entradas devueltas por History.
const MaxHistoryEntries = 10000

// AppendInput datos de una nueva entrada del libro de costos.
type AppendInput struct {
	BusinessID    string
	ProductID     string
	Cost          decimal.Decimal
	EffectiveFrom time.Time
	ChangedBy     string
	Notes         string
}

// Ledger acceso de alto nivel al libro de costos de un negocio.
type Ledger struct {
	repo repository.CostLedgerRepository
}

// NewLedger construye el servicio sobre el repositorio del libro.
func NewLedger(repo repository.CostLedgerRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Append valida y agrega una entrada. No toca ningún otro registro.
func (l *Ledger) Append(ctx context.Context, in AppendInput) (*entity.CostLedgerEntry, error) {
	return appendEntry(ctx, l.repo, in)
}

// Latest devuelve la entrada vigente más reciente o nil.
func (l *Ledger) Latest(ctx context.Context, businessID, productID string) (*entity.CostLedgerEntry, error) {
	return l.repo.Latest(ctx, businessID, productID)
}

// EffectiveAt devuelve la entrada vigente en at o nil si el producto no tenía costo registrado.
func (l *Ledger) EffectiveAt(ctx context.Context, businessID, productID string, at time.Time) (*entity.CostLedgerEntry, error) {
	return l.repo.EffectiveAt(ctx, businessID, productID, at)
}

// History devuelve las entradas de la más reciente a la más antigua, con tope MaxHistoryEntries.
func (l *Ledger) History(ctx context.Context, businessID, productID string) ([]*entity.CostLedgerEntry, error) {
	return l.repo.History(ctx, businessID, productID, MaxHistoryEntries)
}

// appendEntry permite escribir con el repo del caller (dentro o fuera de una tx).
func appendEntry(ctx context.Context, repo repository.CostLedgerRepository, in AppendInput) (*entity.CostLedgerEntry, error) {
	if in.BusinessID == "" || in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := costing.ValidateCost(in.Cost); err != nil {
		return nil, err
	}
	e := &entity.CostLedgerEntry{
		ID:            uuid.New().String(),
		BusinessID:    in.BusinessID,
		ProductID:     in.ProductID,
		Cost:          in.Cost,
		EffectiveFrom: in.EffectiveFrom,
		ChangedBy:     in.ChangedBy,
		Notes:         in.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	if err := repo.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("append cost entry: %w", err)
	}
	return e, nil
}
