package costing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestValidateCost(t *testing.T) {
	assert.NoError(t, costing.ValidateCost(decimal.Zero))
	assert.NoError(t, costing.ValidateCost(dec("10.50")))

	err := costing.ValidateCost(dec("-1.00"))
	assert.True(t, errors.Is(err, domain.ErrValidation), "costo negativo debe ser ErrValidation")
}

func TestNeedsResolution(t *testing.T) {
	assert.True(t, costing.NeedsResolution(nil), "sin snapshot se reconstruye")
	assert.True(t, costing.NeedsResolution(ptr(decimal.Zero)), "snapshot 0 se trata como ausente")
	assert.True(t, costing.NeedsResolution(ptr(dec("0.000"))))
	assert.False(t, costing.NeedsResolution(ptr(dec("8.50"))))
}

func TestComputeLine(t *testing.T) {
	got := costing.ComputeLine(dec("3"), dec("15.00"), dec("10.25"))

	assert.True(t, dec("45.00").Equal(got.Total))
	assert.True(t, dec("30.75").Equal(got.Cost))
	assert.True(t, dec("14.25").Equal(got.Profit))
}

func TestComputeLine_CostoCeroUtilidadIgualIngreso(t *testing.T) {
	got := costing.ComputeLine(dec("2"), dec("7.00"), decimal.Zero)
	assert.True(t, got.Profit.Equal(got.Total))
}

func TestNoteFor(t *testing.T) {
	assert.Empty(t, costing.NoteFor(costing.SourceSnapshot))
	assert.Equal(t, "(costo actual usado)", costing.NoteFor(costing.SourceCurrent))
	assert.NotEmpty(t, costing.NoteFor(costing.SourceLedger))
	assert.NotEmpty(t, costing.NoteFor(costing.SourceNone))
}
