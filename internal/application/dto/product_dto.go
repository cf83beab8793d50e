package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialCost vacío = 0.
type CreateProductRequest struct {
	SKU         string           `json:"sku" validate:"required,min=1,max=100"`
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Price       decimal.Decimal  `json:"price"`
	InitialCost *decimal.Decimal `json:"initial_cost"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Si ProductCost viene informado el cambio pasa por el libro de costos.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price"`
	ProductCost *decimal.Decimal `json:"product_cost"`
	Notes       string           `json:"notes" validate:"max=500"`
}

// ProductResponse salida de un producto. ProductCost es null solo en datos heredados sin migrar.
type ProductResponse struct {
	ID          string           `json:"id"`
	BusinessID  string           `json:"business_id"`
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Price       decimal.Decimal  `json:"price"`
	ProductCost *decimal.Decimal `json:"product_cost"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
