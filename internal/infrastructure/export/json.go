package export

import (
	"encoding/json"
	"io"

	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
)

// JSONExporter devuelve el reporte como dto.ProfitReportResponse.
type JSONExporter struct{}

func (JSONExporter) ContentType() string { return "application/json" }

func (JSONExporter) Extension() string { return "json" }

// Export escribe el JSON en w.
func (JSONExporter) Export(w io.Writer, r *report.ProfitReport) error {
	return json.NewEncoder(w).Encode(ToResponse(r))
}

// ToResponse convierte el reporte al DTO de la API.
func ToResponse(r *report.ProfitReport) dto.ProfitReportResponse {
	lines := make([]dto.ProfitLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.ProfitLineDTO{
			SaleID:        l.SaleID,
			SaleDate:      l.SaleDate,
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			UnitCost:      l.UnitCost,
			LineTotal:     l.LineTotal,
			LineCost:      l.LineCost,
			LineProfit:    l.LineProfit,
			CostSource:    l.CostSource,
			Reconstructed: l.Reconstructed,
			Note:          l.Note,
		})
	}
	return dto.ProfitReportResponse{
		BusinessName: r.BusinessName,
		Start:        r.Start,
		End:          r.End,
		GeneratedAt:  r.GeneratedAt,
		GeneratedBy:  r.GeneratedBy,
		Lines:        lines,
		Totals: dto.ProfitTotalsDTO{
			TotalSales:  r.Totals.TotalSales,
			TotalCost:   r.Totals.TotalCost,
			TotalProfit: r.Totals.TotalProfit,
			TotalItems:  r.Totals.TotalItems,
			SaleCount:   r.Totals.SaleCount,
		},
	}
}

// Exporters registro por formato para report.NewProfitReportUseCase.
func Exporters(locale, csvCharset string) map[string]report.Exporter {
	numbers := NewNumberFormatter(locale)
	return map[string]report.Exporter{
		report.FormatXLSX: NewExcelExporter(numbers),
		report.FormatCSV:  NewCSVExporter(numbers, csvCharset),
		report.FormatJSON: JSONExporter{},
	}
}
