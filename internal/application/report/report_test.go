package report_test

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rentabilidad-api/internal/application/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	domaincosting "github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/memory"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	bizID   = "biz-1"
	actorID = "admin-1"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// countingSales cuenta las consultas de ventas para verificar que la validación ocurre antes.
type countingSales struct {
	repository.SaleRepository
	calls atomic.Int32
}

func (c *countingSales) ListByPeriod(ctx context.Context, businessID string, start, end time.Time) ([]*entity.Sale, error) {
	c.calls.Add(1)
	return c.SaleRepository.ListByPeriod(ctx, businessID, start, end)
}

type stubExporter struct{ ext string }

func (s stubExporter) Export(w io.Writer, r *report.ProfitReport) error {
	_, err := fmt.Fprintf(w, "%s|%d|%s", r.BusinessName, len(r.Lines), r.Totals.TotalProfit)
	return err
}
func (s stubExporter) ContentType() string { return "text/plain" }
func (s stubExporter) Extension() string   { return s.ext }

type env struct {
	store *memory.Store
	cs    *costing.CostStateService
	agg   *report.ProfitAggregator
	sales *countingSales
	uc    *report.ProfitReportUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := memory.NewStore()
	st.PutBusiness(entity.Business{ID: bizID, Name: "Panadería La Esquina", CreatedAt: t0})
	sales := &countingSales{SaleRepository: st.Sales()}
	agg := report.NewProfitAggregator(sales, costing.NewResolver(st.Ledger(), st.Products()))
	uc := report.NewProfitReportUseCase(agg, st.Businesses(), map[string]report.Exporter{
		report.FormatXLSX: stubExporter{"xlsx"},
		report.FormatCSV:  stubExporter{"csv"},
	}, time.UTC, logger.Nop())
	return &env{
		store: st,
		cs:    costing.NewCostStateService(st.Products(), st.Ledger(), st, logger.Nop()),
		agg:   agg,
		sales: sales,
		uc:    uc,
	}
}

func (e *env) product(t *testing.T, id, cost string, at time.Time) {
	t.Helper()
	e.store.PutProduct(entity.Product{ID: id, BusinessID: bizID, SKU: id, Name: "Prod " + id, Price: dec("20"), CreatedAt: at})
	_, err := e.cs.InitializeCost(context.Background(), costing.InitializeCostInput{
		BusinessID: bizID, ProductID: id, InitialCost: dec(cost), ActorID: actorID, CreatedAt: at,
	})
	require.NoError(t, err)
}

func (e *env) sale(t *testing.T, id string, at time.Time, items ...entity.SaleItem) {
	t.Helper()
	total := decimal.Zero
	for i := range items {
		items[i].ID = fmt.Sprintf("%s-%d", id, i)
		items[i].SaleID = id
		total = total.Add(items[i].UnitPrice.Mul(items[i].Quantity))
	}
	require.NoError(t, e.store.Sales().Create(context.Background(), &entity.Sale{
		ID: id, BusinessID: bizID, CreatedBy: "cajero", Total: total, CreatedAt: at, Items: items,
	}))
}

func item(productID, qty, price string, snapshot *decimal.Decimal) entity.SaleItem {
	return entity.SaleItem{ProductID: productID, ProductName: "Prod " + productID, Quantity: dec(qty), UnitPrice: dec(price), UnitCostSnapshot: snapshot}
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregador
// ──────────────────────────────────────────────────────────────────────────────

// El snapshot gana aunque el costo cambie después de la venta.
func TestAggregate_SnapshotGanaSobreCambiosPosteriores(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1", "10.00", t0)
	t1 := t0.Add(2 * time.Hour)
	e.sale(t, "s1", t1, item("p1", "2", "20", ptr("10.00")))
	t2 := t1.Add(time.Hour)
	_, err := e.cs.SetCost(ctx, costing.SetCostInput{BusinessID: bizID, ProductID: "p1", NewCost: dec("12.00"), ActorID: actorID, EffectiveFrom: &t2})
	require.NoError(t, err)

	lines, totals, err := e.agg.Aggregate(ctx, bizID, t0, t1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, dec("10").Equal(lines[0].UnitCost))
	assert.False(t, lines[0].Reconstructed)
	assert.Empty(t, lines[0].Note)
	assert.True(t, dec("20").Equal(totals.TotalProfit))
}

// Snapshot heredado en 0: gana la entrada histórica del libro sobre el costo actual.
func TestAggregate_SnapshotCeroUsaCostoHistorico(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1", "8.50", t0)
	later := t0.Add(48 * time.Hour)
	_, err := e.cs.SetCost(ctx, costing.SetCostInput{BusinessID: bizID, ProductID: "p1", NewCost: dec("9.00"), ActorID: actorID, EffectiveFrom: &later})
	require.NoError(t, err)
	saleAt := t0.Add(24 * time.Hour)
	e.sale(t, "s1", saleAt, item("p1", "1", "15", ptr("0")))

	lines, _, err := e.agg.Aggregate(ctx, bizID, t0, t0.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, dec("8.50").Equal(lines[0].UnitCost))
	assert.True(t, lines[0].Reconstructed)
	assert.Equal(t, domaincosting.SourceLedger, lines[0].CostSource)
	assert.Equal(t, "(costo histórico usado)", lines[0].Note)
}

func TestAggregate_NuncaDescartaLineasSinCosto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1", "5", t0)
	e.sale(t, "s1", t0.Add(time.Hour),
		item("p1", "1", "20", ptr("5")),
		item("fantasma", "3", "2", nil),
	)

	lines, totals, err := e.agg.Aggregate(ctx, bizID, t0, t0.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	ghost := lines[1]
	assert.True(t, ghost.UnitCost.IsZero())
	assert.True(t, ghost.LineProfit.Equal(ghost.LineTotal), "sin costo la utilidad es igual al ingreso")
	assert.Equal(t, domaincosting.SourceNone, ghost.CostSource)
	assert.Equal(t, "(sin costo registrado)", ghost.Note)
	assert.True(t, dec("4").Equal(totals.TotalItems))
	assert.Equal(t, 1, totals.SaleCount)
}

func TestAggregate_TotalesSonSumasExactas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1", "0.3333", t0)
	e.product(t, "p2", "1.10", t0)
	for i := 0; i < 7; i++ {
		e.sale(t, fmt.Sprintf("s%d", i), t0.Add(time.Duration(i+1)*time.Minute),
			item("p1", "3", "0.10", nil),
			item("p2", "1.5", "2.35", ptr("1.10")),
		)
	}

	lines, totals, err := e.agg.Aggregate(ctx, bizID, t0, t0.Add(time.Hour))
	require.NoError(t, err)
	sumTotal, sumCost, sumProfit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, l := range lines {
		sumTotal = sumTotal.Add(l.LineTotal)
		sumCost = sumCost.Add(l.LineCost)
		sumProfit = sumProfit.Add(l.LineProfit)
	}
	assert.True(t, totals.TotalSales.Equal(sumTotal))
	assert.True(t, totals.TotalCost.Equal(sumCost))
	assert.True(t, totals.TotalProfit.Equal(sumProfit))
	assert.True(t, totals.TotalProfit.Equal(totals.TotalSales.Sub(totals.TotalCost)))
	assert.Len(t, lines, 14)
}

func TestAggregate_EntradasFuturasNoCambianElResultado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "p1", "4", t0)
	e.sale(t, "s1", t0.Add(time.Hour), item("p1", "2", "9", nil))
	end := t0.Add(24 * time.Hour)

	first, firstTotals, err := e.agg.Aggregate(ctx, bizID, t0, end)
	require.NoError(t, err)
	future := end.Add(time.Hour)
	_, err = e.cs.SetCost(ctx, costing.SetCostInput{BusinessID: bizID, ProductID: "p1", NewCost: dec("7"), ActorID: actorID, EffectiveFrom: &future})
	require.NoError(t, err)
	second, secondTotals, err := e.agg.Aggregate(ctx, bizID, t0, end)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstTotals, secondTotals)
}

func TestAggregate_RangoInclusivo(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "1", t0)
	end := t0.Add(time.Hour)
	e.sale(t, "inicio", t0, item("p1", "1", "2", ptr("1")))
	e.sale(t, "fin", end, item("p1", "1", "2", ptr("1")))
	e.sale(t, "fuera", end.Add(time.Nanosecond), item("p1", "1", "2", ptr("1")))

	lines, totals, err := e.agg.Aggregate(context.Background(), bizID, t0, end)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, 2, totals.SaleCount)
}

func TestAggregate_RangoInvertido(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.agg.Aggregate(context.Background(), bizID, t0, t0.Add(-time.Second))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, e.sales.calls.Load())
}

// ──────────────────────────────────────────────────────────────────────────────
// Caso de uso del reporte
// ──────────────────────────────────────────────────────────────────────────────

func TestGenerate_PDFSeRechazaAntesDeAgregar(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Generate(context.Background(), report.GenerateInput{
		BusinessID: bizID, StartDate: "2024-05-01", EndDate: "2024-05-31", Format: "PDF",
	})
	assert.ErrorIs(t, err, domain.ErrPDFDisabled)
	assert.Zero(t, e.sales.calls.Load())
}

func TestGenerate_FormatoDesconocido(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Generate(context.Background(), report.GenerateInput{
		BusinessID: bizID, StartDate: "2024-05-01", EndDate: "2024-05-31", Format: "docx",
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Zero(t, e.sales.calls.Load())
}

func TestGenerate_FechasInvalidas(t *testing.T) {
	e := newEnv(t)
	cases := []struct{ start, end string }{
		{"", "2024-05-31"},
		{"2024-13-01", "2024-05-31"},
		{"2024-05-31", "2024-05-01"},
	}
	for _, tc := range cases {
		_, err := e.uc.Generate(context.Background(), report.GenerateInput{
			BusinessID: bizID, StartDate: tc.start, EndDate: tc.end, Format: "csv",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "start=%q end=%q", tc.start, tc.end)
	}
	assert.Zero(t, e.sales.calls.Load())
}

func TestGenerate_ExcelConNombreDeArchivo(t *testing.T) {
	e := newEnv(t)
	e.product(t, "p1", "5", t0)
	e.sale(t, "s1", t0.Add(13*time.Hour), item("p1", "2", "20", ptr("5")))

	f, err := e.uc.Generate(context.Background(), report.GenerateInput{
		BusinessID: bizID, StartDate: "2024-05-01", EndDate: "2024-05-01", Format: "excel", GeneratedBy: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "reporte_rentabilidad_2024-05-01_2024-05-01.xlsx", f.Name)
	assert.True(t, f.Attachment)
	assert.Equal(t, "Panadería La Esquina|1|30", string(f.Data))
}

func TestNormalizeFormat(t *testing.T) {
	for in, want := range map[string]string{"": "xlsx", "XLSX": "xlsx", "excel": "xlsx", "csv": "csv", " json ": "json"} {
		got, err := report.NormalizeFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
}
