package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
	"github.com/jhoicas/Rentabilidad-api/internal/application/sales"
	"github.com/jhoicas/Rentabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
)

// Roles con acceso a costos y reportes de rentabilidad.
var costRoles = []string{entity.RoleSuperAdmin, entity.RoleBusinessAdmin, entity.RoleManager}

// Todos los roles pueden vender.
var saleRoles = []string{entity.RoleSuperAdmin, entity.RoleBusinessAdmin, entity.RoleManager, entity.RoleCashier}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC    *usecase.ProductUseCase
	SaleUC       *sales.SaleUseCase
	ProfitReport *report.ProfitReportUseCase
	Businesses   businessFinder
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token y negocio existente)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	if deps.Businesses != nil {
		protected.Use(RequireBusiness(deps.Businesses))
	}

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", RequireRole(saleRoles...), productHandler.List)
	products.Get("/:id", RequireRole(saleRoles...), productHandler.GetByID)
	products.Post("/", RequireRole(costRoles...), productHandler.Create)
	products.Put("/:id", RequireRole(costRoles...), productHandler.Update)
	products.Put("/:id/cost", RequireRole(costRoles...), productHandler.SetCost)
	products.Get("/:id/cost-history", RequireRole(costRoles...), productHandler.CostHistory)

	// Sales
	salesGroup := protected.Group("/sales", RequireRole(saleRoles...))
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Reports
	reports := protected.Group("/reports", RequireRole(costRoles...))
	reportHandler := NewReportHandler(deps.ProfitReport)
	reports.Get("/profit", reportHandler.Profit)
}
