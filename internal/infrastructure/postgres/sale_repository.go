package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y líneas en una transacción (o savepoint si q ya es una tx).
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO sales (id, business_id, created_by, total, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			sale.ID, sale.BusinessID, sale.CreatedBy, sale.Total, sale.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		batch := &pgx.Batch{}
		for i := range sale.Items {
			it := &sale.Items[i]
			batch.Queue(`
				INSERT INTO sale_items (id, sale_id, line_no, product_id, product_name, quantity, unit_price, unit_cost_snapshot)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				it.ID, sale.ID, i+1, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.UnitCostSnapshot,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert sale items: %w", err)
		}
		return nil
	})
}

// GetByID obtiene una venta del negocio con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, businessID, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `
		SELECT id, business_id, created_by, total, created_at
		FROM sales WHERE business_id = $1 AND id = $2`, businessID, id,
	).Scan(&s.ID, &s.BusinessID, &s.CreatedBy, &s.Total, &s.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.loadItems(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return &s, nil
}

// ListByPeriod lista las ventas en [start, end] con sus líneas.
func (r *SaleRepo) ListByPeriod(ctx context.Context, businessID string, start, end time.Time) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, business_id, created_by, total, created_at
		FROM sales
		WHERE business_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at, id`, businessID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var (
		list []*entity.Sale
		ids  []string
	)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.BusinessID, &s.CreatedBy, &s.Total, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, saleIDs []string) (map[string][]entity.SaleItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, product_name, quantity, unit_price, unit_cost_snapshot
		FROM sale_items WHERE sale_id = ANY($1::uuid[])
		ORDER BY sale_id, line_no`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.SaleItem, len(saleIDs))
	for rows.Next() {
		var it entity.SaleItem
		var snapshot decimal.NullDecimal
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &snapshot); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		if snapshot.Valid {
			it.UnitCostSnapshot = &snapshot.Decimal
		}
		out[it.SaleID] = append(out[it.SaleID], it)
	}
	return out, rows.Err()
}
