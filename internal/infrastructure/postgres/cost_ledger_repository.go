package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
)

var _ repository.CostLedgerRepository = (*CostLedgerRepo)(nil)

const ledgerColumns = `id, business_id, product_id, cost, effective_from, changed_by, notes, created_at, seq`

// CostLedgerRepo implementación append-only del libro de costos sobre PostgreSQL.
// La tabla tiene un trigger que rechaza UPDATE y DELETE.
type CostLedgerRepo struct {
	q Querier
}

// NewCostLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCostLedgerRepository(q Querier) *CostLedgerRepo {
	return &CostLedgerRepo{q: q}
}

// Append inserta la entrada y devuelve en ella el seq asignado por la secuencia.
func (r *CostLedgerRepo) Append(ctx context.Context, e *entity.CostLedgerEntry) error {
	query := `
		INSERT INTO cost_ledger (id, business_id, product_id, cost, effective_from, changed_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.BusinessID, e.ProductID, e.Cost, e.EffectiveFrom, e.ChangedBy, e.Notes, e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		return fmt.Errorf("insert cost ledger entry: %w", err)
	}
	return nil
}

// Latest devuelve la entrada vigente más reciente.
func (r *CostLedgerRepo) Latest(ctx context.Context, businessID, productID string) (*entity.CostLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM cost_ledger
		WHERE business_id = $1 AND product_id = $2
		ORDER BY effective_from DESC, seq DESC
		LIMIT 1`
	e, err := scanLedgerEntry(r.q.QueryRow(ctx, query, businessID, productID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest cost ledger entry: %w", err)
	}
	return e, nil
}

// EffectiveAt devuelve la entrada vigente en el instante at (effective_from <= at).
func (r *CostLedgerRepo) EffectiveAt(ctx context.Context, businessID, productID string, at time.Time) (*entity.CostLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM cost_ledger
		WHERE business_id = $1 AND product_id = $2 AND effective_from <= $3
		ORDER BY effective_from DESC, seq DESC
		LIMIT 1`
	e, err := scanLedgerEntry(r.q.QueryRow(ctx, query, businessID, productID, at))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cost ledger entry at %s: %w", at.Format(time.RFC3339), err)
	}
	return e, nil
}

// History lista las entradas de la más reciente a la más antigua.
func (r *CostLedgerRepo) History(ctx context.Context, businessID, productID string, limit int) ([]*entity.CostLedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM cost_ledger
		WHERE business_id = $1 AND product_id = $2
		ORDER BY effective_from DESC, seq DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, businessID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("cost ledger history: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.CostLedgerEntry, 0)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cost ledger entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanLedgerEntry(row pgx.Row) (*entity.CostLedgerEntry, error) {
	var e entity.CostLedgerEntry
	if err := row.Scan(&e.ID, &e.BusinessID, &e.ProductID, &e.Cost, &e.EffectiveFrom,
		&e.ChangedBy, &e.Notes, &e.CreatedAt, &e.Seq); err != nil {
		return nil, err
	}
	return &e, nil
}
