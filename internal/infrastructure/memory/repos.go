package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository    = (*ProductRepo)(nil)
	_ repository.CostLedgerRepository = (*CostLedgerRepo)(nil)
	_ repository.SaleRepository       = (*SaleRepo)(nil)
	_ repository.UserRepository       = (*UserRepo)(nil)
	_ repository.BusinessRepository   = (*BusinessRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.products {
		if existing.BusinessID == p.BusinessID && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = copyProduct(*p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, businessID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok || p.BusinessID != businessID {
		return nil, nil
	}
	out := copyProduct(p)
	return &out, nil
}

func (r *ProductRepo) GetByBusinessAndSKU(_ context.Context, businessID, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.BusinessID == businessID && p.SKU == sku {
			out := copyProduct(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok || cur.BusinessID != p.BusinessID {
		return domain.ErrNotFound
	}
	cur.Name = p.Name
	cur.Price = p.Price
	cur.UpdatedAt = p.UpdatedAt
	r.s.products[p.ID] = cur
	return nil
}

func (r *ProductRepo) UpdateCost(_ context.Context, businessID, productID string, cost decimal.Decimal, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[productID]
	if !ok || cur.BusinessID != businessID {
		return domain.ErrNotFound
	}
	cur.ProductCost = &cost
	cur.UpdatedAt = updatedAt
	r.s.products[productID] = cur
	return nil
}

func (r *ProductRepo) ListByBusiness(_ context.Context, businessID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.BusinessID == businessID {
			out := copyProduct(p)
			list = append(list, &out)
		}
	}
	r.s.mu.RUnlock()
	slices.SortFunc(list, func(a, b *entity.Product) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return page(list, limit, offset), nil
}

// CostLedgerRepo libro de costos en memoria; solo admite inserciones.
type CostLedgerRepo struct{ s *Store }

func (r *CostLedgerRepo) Append(_ context.Context, e *entity.CostLedgerEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	e.Seq = r.s.seq
	r.s.ledger = append(r.s.ledger, *e)
	return nil
}

func (r *CostLedgerRepo) Latest(_ context.Context, businessID, productID string) (*entity.CostLedgerEntry, error) {
	list := r.matching(businessID, productID, nil)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *CostLedgerRepo) EffectiveAt(_ context.Context, businessID, productID string, at time.Time) (*entity.CostLedgerEntry, error) {
	list := r.matching(businessID, productID, &at)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *CostLedgerRepo) History(_ context.Context, businessID, productID string, limit int) ([]*entity.CostLedgerEntry, error) {
	list := r.matching(businessID, productID, nil)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// matching devuelve las entradas del producto (opcionalmente con effective_from <= at),
// ordenadas por effective_from DESC, seq DESC.
func (r *CostLedgerRepo) matching(businessID, productID string, at *time.Time) []*entity.CostLedgerEntry {
	r.s.mu.RLock()
	list := make([]*entity.CostLedgerEntry, 0)
	for _, e := range r.s.ledger {
		if e.BusinessID != businessID || e.ProductID != productID {
			continue
		}
		if at != nil && e.EffectiveFrom.After(*at) {
			continue
		}
		out := e
		list = append(list, &out)
	}
	r.s.mu.RUnlock()
	slices.SortFunc(list, func(a, b *entity.CostLedgerEntry) int {
		if c := b.EffectiveFrom.Compare(a.EffectiveFrom); c != 0 {
			return c
		}
		return cmp.Compare(b.Seq, a.Seq)
	})
	return list
}

// SaleRepo ventas en memoria.
type SaleRepo struct{ s *Store }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.sales[sale.ID] = copySale(*sale)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, businessID, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok || sale.BusinessID != businessID {
		return nil, nil
	}
	out := copySale(sale)
	return &out, nil
}

func (r *SaleRepo) ListByPeriod(_ context.Context, businessID string, start, end time.Time) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	var list []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.BusinessID != businessID || sale.CreatedAt.Before(start) || sale.CreatedAt.After(end) {
			continue
		}
		out := copySale(sale)
		list = append(list, &out)
	}
	r.s.mu.RUnlock()
	slices.SortFunc(list, func(a, b *entity.Sale) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}

// UserRepo directorio de usuarios en memoria.
type UserRepo struct{ s *Store }

func (r *UserRepo) FindFirstByRole(_ context.Context, businessID, role string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var found *entity.User
	for i := range r.s.users {
		u := r.s.users[i]
		if u.Role != role || (businessID != "" && u.BusinessID != businessID) {
			continue
		}
		if found == nil || u.CreatedAt.Before(found.CreatedAt) ||
			(u.CreatedAt.Equal(found.CreatedAt) && u.ID < found.ID) {
			found = &u
		}
	}
	return found, nil
}

// BusinessRepo negocios en memoria.
type BusinessRepo struct{ s *Store }

func (r *BusinessRepo) GetByID(_ context.Context, id string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BusinessRepo) List(_ context.Context) ([]*entity.Business, error) {
	r.s.mu.RLock()
	list := make([]*entity.Business, 0, len(r.s.businesses))
	for _, b := range r.s.businesses {
		out := b
		list = append(list, &out)
	}
	r.s.mu.RUnlock()
	slices.SortFunc(list, func(a, b *entity.Business) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
