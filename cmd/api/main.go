package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Rentabilidad-api/internal/application/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
	"github.com/jhoicas/Rentabilidad-api/internal/application/sales"
	"github.com/jhoicas/Rentabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/export"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Rentabilidad-api/internal/interfaces/http"
	"github.com/jhoicas/Rentabilidad-api/pkg/config"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.Close()

	costState := costing.NewCostStateService(repos.Products, repos.Ledger, repos.TxRunner, log)
	productUC := usecase.NewProductUseCase(repos.Products, repos.TxRunner, costState)
	saleUC := sales.NewSaleUseCase(repos.Sales, repos.Products, costing.NewSnapshotter(repos.Products))

	resolver := costing.NewResolver(repos.Ledger, repos.Products)
	profitReportUC := report.NewProfitReportUseCase(
		report.NewProfitAggregator(repos.Sales, resolver),
		repos.Businesses,
		export.Exporters(cfg.Report.Locale, cfg.Report.CSVEncoding),
		cfg.Report.Location(),
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Rentabilidad API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	deps := httpRouter.RouterDeps{
		ProductUC:    productUC,
		SaleUC:       saleUC,
		ProfitReport: profitReportUC,
		JWTSecret:    cfg.JWT.Secret,
	}
	// En memoria no hay catálogo de negocios: cualquier business_id del token es válido.
	if repos.Driver == config.StoragePostgres {
		deps.Businesses = repos.Businesses
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
