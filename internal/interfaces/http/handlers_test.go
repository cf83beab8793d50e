package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rentabilidad-api/internal/application/costing"
	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
	"github.com/jhoicas/Rentabilidad-api/internal/application/sales"
	"github.com/jhoicas/Rentabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/export"
	"github.com/jhoicas/Rentabilidad-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Rentabilidad-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Rentabilidad-api/pkg/jwt"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newAPI arma la API completa sobre el store en memoria con un negocio registrado.
func newAPI(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	st.PutBusiness(entity.Business{ID: testBusinessID, Name: "Tienda Central", CreatedAt: time.Now().UTC()})

	costState := costing.NewCostStateService(st.Products(), st.Ledger(), st, logger.Nop())
	resolver := costing.NewResolver(st.Ledger(), st.Products())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC: usecase.NewProductUseCase(st.Products(), st, costState),
		SaleUC:    sales.NewSaleUseCase(st.Sales(), st.Products(), costing.NewSnapshotter(st.Products())),
		ProfitReport: report.NewProfitReportUseCase(
			report.NewProfitAggregator(st.Sales(), resolver),
			st.Businesses(),
			export.Exporters("es-CO", "utf-8"),
			time.UTC,
			logger.Nop(),
		),
		Businesses: st.Businesses(),
		JWTSecret:  testJWTSecret,
	})
	return app, st
}

func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createProduct(t *testing.T, app *fiber.App, sku, price, cost string) dto.ProductResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/products", "manager", map[string]string{
		"sku": sku, "name": "Producto " + sku, "price": price, "initial_cost": cost,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p dto.ProductResponse
	decode(t, resp, &p)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y costos
// ──────────────────────────────────────────────────────────────────────────────

func TestCostHistory_ProductoInexistente_Retorna404(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/products/no-existe/cost-history", "manager", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestCostHistory_SinHistorial_RetornaListaVacia(t *testing.T) {
	app, st := newAPI(t)
	st.PutProduct(entity.Product{ID: "legacy-1", BusinessID: testBusinessID, SKU: "L1", Name: "Heredado"})

	resp := call(t, app, http.MethodGet, "/api/products/legacy-1/cost-history", "manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestSetCost_RegistraHistorialDelMasRecienteAlMasAntiguo(t *testing.T) {
	app, _ := newAPI(t)
	p := createProduct(t, app, "CAF-01", "5000", "3000")

	resp := call(t, app, http.MethodPut, "/api/products/"+p.ID+"/cost", "manager", map[string]string{
		"cost": "3500", "notes": "nuevo proveedor",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SetCostResponse
	decode(t, resp, &out)
	assert.True(t, out.Changed)
	require.NotNil(t, out.Product.ProductCost)
	assert.True(t, decimal.NewFromInt(3500).Equal(*out.Product.ProductCost))

	resp = call(t, app, http.MethodGet, "/api/products/"+p.ID+"/cost-history", "manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist []dto.CostHistoryEntryResponse
	decode(t, resp, &hist)
	require.Len(t, hist, 2)
	assert.True(t, decimal.NewFromInt(3500).Equal(hist[0].Cost))
	assert.Equal(t, "nuevo proveedor", hist[0].Notes)
	assert.True(t, decimal.NewFromInt(3000).Equal(hist[1].Cost))
}

func TestSetCost_MismoCostoNoEscribe(t *testing.T) {
	app, _ := newAPI(t)
	p := createProduct(t, app, "CAF-02", "5000", "3000")

	resp := call(t, app, http.MethodPut, "/api/products/"+p.ID+"/cost", "manager", map[string]string{"cost": "3000.00"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SetCostResponse
	decode(t, resp, &out)
	assert.False(t, out.Changed)
	assert.Nil(t, out.Entry)
}

func TestSetCost_CostoNegativo_Retorna400(t *testing.T) {
	app, _ := newAPI(t)
	p := createProduct(t, app, "CAF-03", "5000", "3000")

	resp := call(t, app, http.MethodPut, "/api/products/"+p.ID+"/cost", "manager", map[string]string{"cost": "-1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestSetCost_CajeroNoPuedeCambiarCosto(t *testing.T) {
	app, _ := newAPI(t)
	p := createProduct(t, app, "CAF-04", "5000", "3000")

	resp := call(t, app, http.MethodPut, "/api/products/"+p.ID+"/cost", "cashier", map[string]string{"cost": "1"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateProduct_SinSKU_Retorna400(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/products", "manager", map[string]string{"name": "Sin SKU"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Message, "SKU:required")
}

func TestNegocioInexistente_Retorna403(t *testing.T) {
	app, _ := newAPI(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "otro-negocio", "manager", testIssuer, testExpMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "BUSINESS_NOT_FOUND", e.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_CajeroRegistraVentaConSnapshot(t *testing.T) {
	app, _ := newAPI(t)
	p := createProduct(t, app, "PAN-01", "2000", "1200")

	resp := call(t, app, http.MethodPost, "/api/sales", "cashier", map[string]interface{}{
		"items": []map[string]string{{"product_id": p.ID, "quantity": "3"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale dto.SaleResponse
	decode(t, resp, &sale)
	require.Len(t, sale.Items, 1)
	require.NotNil(t, sale.Items[0].UnitCostSnapshot)
	assert.True(t, decimal.NewFromInt(1200).Equal(*sale.Items[0].UnitCostSnapshot))
	assert.True(t, decimal.NewFromInt(6000).Equal(sale.Total))

	resp = call(t, app, http.MethodGet, "/api/sales/"+sale.ID, "cashier", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateSale_SinLineas_Retorna400(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/sales", "cashier", map[string]interface{}{"items": []interface{}{}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte de rentabilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestProfitReport_PDF_Retorna400(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/reports/profit?start_date=2024-01-01&end_date=2024-01-31&format=pdf", "manager", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "PDF_DISABLED", e.Code)
	assert.Contains(t, e.Message, "Excel")
}

func TestProfitReport_FormatoDesconocido_Retorna400(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/reports/profit?start_date=2024-01-01&end_date=2024-01-31&format=docx", "manager", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "UNSUPPORTED_FORMAT", e.Code)
}

func TestProfitReport_RangoInvertido_Retorna400(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/reports/profit?start_date=2024-02-01&end_date=2024-01-01&format=csv", "manager", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfitReport_SinFechas_Retorna400(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/reports/profit?format=csv", "manager", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestProfitReport_CSVComoAdjunto(t *testing.T) {
	app, _ := newAPI(t)
	p := createProduct(t, app, "LEC-01", "4000", "2500")
	resp := call(t, app, http.MethodPost, "/api/sales", "cashier", map[string]interface{}{
		"items": []map[string]string{{"product_id": p.ID, "quantity": "2"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	today := time.Now().UTC().Format("2006-01-02")
	resp = call(t, app, http.MethodGet, "/api/reports/profit?start_date="+today+"&end_date="+today+"&format=csv", "business_admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="reporte_rentabilidad_`+today+`_`+today+`.csv"`, resp.Header.Get("Content-Disposition"))
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "Tienda Central")
	assert.Contains(t, string(raw), "3000")
}

func TestProfitReport_JSONSinAdjunto(t *testing.T) {
	app, _ := newAPI(t)
	today := time.Now().UTC().Format("2006-01-02")
	resp := call(t, app, http.MethodGet, "/api/reports/profit?start_date="+today+"&end_date="+today+"&format=json", "manager", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Disposition"))

	var out dto.ProfitReportResponse
	decode(t, resp, &out)
	assert.Equal(t, "Tienda Central", out.BusinessName)
	assert.Empty(t, out.Lines)
	assert.True(t, out.Totals.TotalProfit.IsZero())
}

func TestProfitReport_CajeroBloqueado(t *testing.T) {
	app, _ := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/reports/profit?start_date=2024-01-01&end_date=2024-01-31", "cashier", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
