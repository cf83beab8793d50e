package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jhoicas/Rentabilidad-api/internal/application/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/application/migration"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/lock"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/storage"
	"github.com/jhoicas/Rentabilidad-api/pkg/config"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

func main() {
	businessID := flag.String("business-id", "", "Negocio a migrar (vacío = todos)")
	dryRun := flag.Bool("dry-run", false, "Solo contar, sin escribir")
	skipSchema := flag.Bool("skip-schema", false, "No aplicar las migraciones SQL")
	actorID := flag.String("actor-id", "", "Usuario que firma las entradas (vacío = primer business_admin, o super_admin)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	if cfg.App.StorageDriver != config.StoragePostgres {
		fmt.Fprintln(os.Stderr, "la migración de costos requiere STORAGE_DRIVER=postgres")
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate_costs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *businessID, *actorID, *skipSchema, migration.Options{DryRun: *dryRun}); err != nil {
		log.Error().Err(err).Msg("migración de costos fallida")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, businessID, actorID string, skipSchema bool, opts migration.Options) error {
	if !skipSchema && !opts.DryRun {
		version, err := postgres.MigrateUp(cfg.DB.ConnectionString(), cfg.Migration.MigrationsPath)
		if err != nil {
			return err
		}
		log.Info().Uint("schema_version", version).Msg("esquema actualizado")
	}

	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	var locker migration.TenantLocker = migration.NoopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		locker = lock.NewRedisTenantLocker(rdb, cfg.Migration.LockTTL, log)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: la migración no se bloquea por negocio")
	}

	costState := costing.NewCostStateService(repos.Products, repos.Ledger, repos.TxRunner, log)
	m := migration.NewCostMigration(repos.Products, repos.Businesses, costing.NewLedger(repos.Ledger), costState, locker, log)

	resolve := migration.DirectoryActorResolver(repos.Users)
	if strings.TrimSpace(actorID) != "" {
		resolve = migration.StaticActor(strings.TrimSpace(actorID))
	}

	var results []*migration.Result
	if strings.TrimSpace(businessID) != "" {
		res, err := m.MigrateBusiness(ctx, strings.TrimSpace(businessID), resolve, opts)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		results, err = m.MigrateAll(ctx, resolve, opts)
	}

	for _, r := range results {
		fmt.Printf("%s\tactor=%s\tinicializados=%d\treparados=%d\tsin_cambios=%d\n",
			r.BusinessID, r.ActorID, r.Initialized, r.Repaired, r.Unchanged)
	}
	return err
}
