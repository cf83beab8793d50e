// Package storage arma el conjunto de repositorios según STORAGE_DRIVER (postgres o memory).
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/Rentabilidad-api/internal/application/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Rentabilidad-api/pkg/config"
)

// Repositories repositorios y runner transaccional de un mismo backend.
type Repositories struct {
	Driver     string
	Products   repository.ProductRepository
	Ledger     repository.CostLedgerRepository
	Sales      repository.SaleRepository
	Users      repository.UserRepository
	Businesses repository.BusinessRepository
	TxRunner   costing.TxRunner

	close func()
}

// Close libera las conexiones (no-op en memoria).
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// Open construye los repositorios del driver configurado.
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		return FromStore(memory.NewStore()), nil
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Driver:     config.StoragePostgres,
			Products:   postgres.NewProductRepository(pool),
			Ledger:     postgres.NewCostLedgerRepository(pool),
			Sales:      postgres.NewSaleRepository(pool),
			Users:      postgres.NewUserRepository(pool),
			Businesses: postgres.NewBusinessRepository(pool),
			TxRunner:   postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %s", cfg.App.StorageDriver)
	}
}

// FromStore envuelve un store en memoria (modo desarrollo y tests).
func FromStore(st *memory.Store) *Repositories {
	return &Repositories{
		Driver:     config.StorageMemory,
		Products:   st.Products(),
		Ledger:     st.Ledger(),
		Sales:      st.Sales(),
		Users:      st.Users(),
		Businesses: st.Businesses(),
		TxRunner:   st,
	}
}
