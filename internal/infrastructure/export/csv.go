package export

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
)

// CSVExporter genera un CSV con filas de contexto, detalle y totales. Los montos se escriben
// con su valor decimal exacto.
type CSVExporter struct {
	numbers *NumberFormatter
	charset string
}

// NewCSVExporter construye el exportador. charset: "utf-8" (con BOM) o "windows-1252".
func NewCSVExporter(numbers *NumberFormatter, charset string) *CSVExporter {
	return &CSVExporter{numbers: numbers, charset: charset}
}

func (e *CSVExporter) ContentType() string {
	if e.charset == "windows-1252" {
		return "text/csv; charset=windows-1252"
	}
	return "text/csv; charset=utf-8"
}

func (e *CSVExporter) Extension() string { return "csv" }

// Export escribe el CSV en w.
func (e *CSVExporter) Export(w io.Writer, r *report.ProfitReport) error {
	var out io.Writer = w
	var tw *transform.Writer
	if e.charset == "windows-1252" {
		tw = transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		out = tw
	} else if _, err := io.WriteString(w, "\uFEFF"); err != nil { // BOM para que Excel detecte UTF-8
		return err
	}

	cw := csv.NewWriter(out)
	records := [][]string{
		{"Negocio", r.BusinessName},
		{"Período", r.Start.Format(dateLayout) + " a " + r.End.Format(dateLayout)},
		{"Generado", r.GeneratedAt.Format(dateTimeLayout)},
		{"Generado por", r.GeneratedBy},
		{"Utilidad total", e.numbers.Money(r.Totals.TotalProfit)},
		{},
		lineHeaders,
	}
	for _, l := range r.Lines {
		records = append(records, []string{
			l.SaleDate.Format(dateTimeLayout), l.SaleID, l.ProductName,
			l.Quantity.String(), l.UnitPrice.String(), l.UnitCost.String(),
			l.LineTotal.String(), l.LineCost.String(), l.LineProfit.String(),
			sourceLabel(l.CostSource), l.Note,
		})
	}
	t := r.Totals
	records = append(records, []string{
		"TOTAL", "", "", t.TotalItems.String(), "", "",
		t.TotalSales.String(), t.TotalCost.String(), t.TotalProfit.String(), "", "",
	})
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	if tw != nil {
		return tw.Close()
	}
	return nil
}
