package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetCostRequest cambio explícito del costo de un producto.
type SetCostRequest struct {
	Cost          decimal.Decimal `json:"cost"`
	Notes         string          `json:"notes" validate:"max=500"`
	EffectiveFrom *time.Time      `json:"effective_from"`
}

// SetCostResponse resultado de un cambio de costo. Changed=false si el costo era el mismo.
type SetCostResponse struct {
	Changed bool                      `json:"changed"`
	Entry   *CostHistoryEntryResponse `json:"entry,omitempty"`
	Product *ProductResponse          `json:"product"`
}

// CostHistoryEntryResponse entrada del historial de costos.
type CostHistoryEntryResponse struct {
	ID            string          `json:"id"`
	Cost          decimal.Decimal `json:"cost"`
	EffectiveFrom time.Time       `json:"effective_from"`
	ChangedBy     string          `json:"changed_by"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
}
