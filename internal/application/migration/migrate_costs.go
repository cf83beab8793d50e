// Package migration completa el libro de costos de datos heredados: cada producto sin historial
// recibe su entrada inicial. Es idempotente y se ejecuta por negocio.
package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/application/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const pageSize = 500

// ErrTenantLocked otro proceso está migrando el mismo negocio.
var ErrTenantLocked = errors.New("migración en curso para este negocio")

// TenantLocker serializa migraciones del mismo negocio entre procesos.
type TenantLocker interface {
	Lock(ctx context.Context, businessID string) (unlock func(), err error)
}

// Options opciones de ejecución.
type Options struct {
	DryRun bool // solo cuenta, no escribe
}

// Result resumen por negocio.
type Result struct {
	BusinessID  string
	ActorID     string
	Initialized int // productos que recibieron entrada inicial
	Repaired    int // productos con historial y product_cost ausente o desactualizado
	Unchanged   int
}

// CostMigration backfill del libro de costos.
type CostMigration struct {
	products   repository.ProductRepository
	businesses repository.BusinessRepository
	ledger     *costing.Ledger
	costState  *costing.CostStateService
	locker     TenantLocker
	log        *logger.Logger
}

// NewCostMigration construye la migración.
func NewCostMigration(
	products repository.ProductRepository,
	businesses repository.BusinessRepository,
	ledger *costing.Ledger,
	costState *costing.CostStateService,
	locker TenantLocker,
	log *logger.Logger,
) *CostMigration {
	return &CostMigration{
		products:   products,
		businesses: businesses,
		ledger:     ledger,
		costState:  costState,
		locker:     locker,
		log:        log.Component("cost_migration"),
	}
}

// InitialCost política del costo inicial migrado: product_cost si existe, si no el campo
// heredado cost cuando es positivo, si no 0.
func InitialCost(p *entity.Product) decimal.Decimal {
	if cost, ok := p.CurrentCost(); ok {
		return cost
	}
	if p.LegacyCost != nil && p.LegacyCost.IsPositive() {
		return *p.LegacyCost
	}
	return decimal.Zero
}

// MigrateBusiness resuelve el actor antes de escribir nada; sin actor devuelve ErrConfiguration.
func (m *CostMigration) MigrateBusiness(ctx context.Context, businessID string, resolve ActorResolver, opts Options) (*Result, error) {
	actorID, err := resolve(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("resolver actor del negocio %s: %w", businessID, err)
	}
	if actorID == "" {
		return nil, fmt.Errorf("%w: el negocio %s no tiene usuarios business_admin ni existe un super_admin; cree uno antes de migrar",
			domain.ErrConfiguration, businessID)
	}

	unlock, err := m.locker.Lock(ctx, businessID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	res := &Result{BusinessID: businessID, ActorID: actorID}
	for offset := 0; ; offset += pageSize {
		page, err := m.products.ListByBusiness(ctx, businessID, pageSize, offset)
		if err != nil {
			return res, fmt.Errorf("listar productos: %w", err)
		}
		for _, p := range page {
			if err := m.migrateProduct(ctx, p, actorID, opts, res); err != nil {
				return res, fmt.Errorf("producto %s: %w", p.ID, err)
			}
		}
		if len(page) < pageSize {
			break
		}
	}

	m.log.Info().
		Str("business_id", businessID).
		Str("actor_id", actorID).
		Bool("dry_run", opts.DryRun).
		Int("initialized", res.Initialized).
		Int("repaired", res.Repaired).
		Int("unchanged", res.Unchanged).
		Msg("migración de costos completada")
	return res, nil
}

func (m *CostMigration) migrateProduct(ctx context.Context, p *entity.Product, actorID string, opts Options, res *Result) error {
	latest, err := m.ledger.Latest(ctx, p.BusinessID, p.ID)
	if err != nil {
		return err
	}
	if latest == nil {
		res.Initialized++
		if opts.DryRun {
			return nil
		}
		_, err := m.costState.InitializeCost(ctx, costing.InitializeCostInput{
			BusinessID:  p.BusinessID,
			ProductID:   p.ID,
			InitialCost: InitialCost(p),
			ActorID:     actorID,
			CreatedAt:   p.CreatedAt,
			Notes:       entity.NoteMigrationCost,
		})
		return err
	}
	// Reparación: product_cost ausente o distinto de la última entrada (p. ej. caída entre
	// la escritura del libro y la del producto).
	if current, ok := p.CurrentCost(); !ok || !current.Equal(latest.Cost) {
		res.Repaired++
		if opts.DryRun {
			return nil
		}
		return m.products.UpdateCost(ctx, p.BusinessID, p.ID, latest.Cost, time.Now().UTC())
	}
	res.Unchanged++
	return nil
}

// MigrateAll migra todos los negocios. Un negocio que falla no detiene a los demás;
// los errores se devuelven combinados.
func (m *CostMigration) MigrateAll(ctx context.Context, resolve ActorResolver, opts Options) ([]*Result, error) {
	list, err := m.businesses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar negocios: %w", err)
	}
	var (
		results []*Result
		errs    []error
	)
	for _, b := range list {
		res, err := m.MigrateBusiness(ctx, b.ID, resolve, opts)
		if err != nil {
			m.log.Error().Err(err).Str("business_id", b.ID).Msg("migración de costos fallida")
			errs = append(errs, fmt.Errorf("negocio %s: %w", b.ID, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// NoopLocker no serializa (sin Redis configurado).
type NoopLocker struct{}

// Lock no hace nada.
func (NoopLocker) Lock(context.Context, string) (func(), error) { return func() {}, nil }
