// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory (desarrollo) y en las pruebas de la capa de aplicación.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store guarda todas las tablas bajo un único mutex.
type Store struct {
	mu         sync.RWMutex
	txMu       sync.Mutex
	businesses map[string]entity.Business
	users      []entity.User
	products   map[string]entity.Product
	ledger     []entity.CostLedgerEntry
	sales      map[string]entity.Sale
	seq        int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		businesses: map[string]entity.Business{},
		products:   map[string]entity.Product{},
		sales:      map[string]entity.Sale{},
	}
}

// Products devuelve el adaptador de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Ledger devuelve el adaptador del libro de costos.
func (s *Store) Ledger() *CostLedgerRepo { return &CostLedgerRepo{s: s} }

// Sales devuelve el adaptador de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Users devuelve el adaptador del directorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Businesses devuelve el adaptador de negocios.
func (s *Store) Businesses() *BusinessRepo { return &BusinessRepo{s: s} }

// PutBusiness registra un negocio.
func (s *Store) PutBusiness(b entity.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses[b.ID] = b
}

// PutUser registra un usuario en el directorio.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// PutProduct inserta un producto tal cual, sin entrada en el libro de costos (datos heredados).
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = copyProduct(p)
}

// RunCosting ejecuta fn sobre los repos de producto y libro; si fn falla se restaura el estado previo.
// Las transacciones se serializan entre sí.
func (s *Store) RunCosting(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.CostLedgerRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	products := maps.Clone(s.products)
	ledger := append([]entity.CostLedgerEntry(nil), s.ledger...)
	s.mu.RUnlock()

	if err := fn(s.Products(), s.Ledger()); err != nil {
		s.mu.Lock()
		s.products = products
		s.ledger = ledger
		s.mu.Unlock()
		return err
	}
	return nil
}

func copyDecimalPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func copyProduct(p entity.Product) entity.Product {
	p.ProductCost = copyDecimalPtr(p.ProductCost)
	p.LegacyCost = copyDecimalPtr(p.LegacyCost)
	return p
}

func copySale(sale entity.Sale) entity.Sale {
	items := make([]entity.SaleItem, len(sale.Items))
	for i, it := range sale.Items {
		it.UnitCostSnapshot = copyDecimalPtr(it.UnitCostSnapshot)
		items[i] = it
	}
	sale.Items = items
	return sale
}
