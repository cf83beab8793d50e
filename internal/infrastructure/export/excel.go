package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
)

const sheetName = "Rentabilidad"

// ExcelExporter genera un .xlsx con encabezado del negocio, detalle por línea y fila de totales.
type ExcelExporter struct {
	numbers *NumberFormatter
}

// NewExcelExporter construye el exportador.
func NewExcelExporter(numbers *NumberFormatter) *ExcelExporter {
	return &ExcelExporter{numbers: numbers}
}

func (e *ExcelExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (e *ExcelExporter) Extension() string { return "xlsx" }

// Export escribe el libro en w.
func (e *ExcelExporter) Export(w io.Writer, r *report.ProfitReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}
	boldMoney, err := f.NewStyle(&excelize.Style{NumFmt: 4, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	header := [][2]string{
		{"Reporte de rentabilidad", ""},
		{"Negocio", r.BusinessName},
		{"Período", fmt.Sprintf("%s a %s", r.Start.Format(dateLayout), r.End.Format(dateLayout))},
		{"Generado", r.GeneratedAt.Format(dateTimeLayout)},
		{"Generado por", r.GeneratedBy},
		{"Ventas totales", e.numbers.Money(r.Totals.TotalSales)},
		{"Utilidad total", e.numbers.Money(r.Totals.TotalProfit)},
	}
	for i, kv := range header {
		row := i + 1
		if err := setRow(f, row, kv[0], kv[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell(1, row), cell(1, row), bold); err != nil {
			return err
		}
	}

	row := len(header) + 2
	if err := setRow(f, row, toAny(lineHeaders)...); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, cell(1, row), cell(len(lineHeaders), row), bold); err != nil {
		return err
	}

	first := row + 1
	for _, l := range r.Lines {
		row++
		if err := setRow(f, row,
			l.SaleDate.Format(dateTimeLayout), l.SaleID, l.ProductName,
			l.Quantity.InexactFloat64(), l.UnitPrice.InexactFloat64(), l.UnitCost.InexactFloat64(),
			l.LineTotal.InexactFloat64(), l.LineCost.InexactFloat64(), l.LineProfit.InexactFloat64(),
			sourceLabel(l.CostSource), l.Note,
		); err != nil {
			return err
		}
	}
	if row >= first {
		if err := f.SetCellStyle(sheetName, cell(5, first), cell(9, row), money); err != nil {
			return err
		}
	}

	row++
	t := r.Totals
	if err := setRow(f, row, "TOTAL", "", "",
		t.TotalItems.InexactFloat64(), "", "",
		t.TotalSales.InexactFloat64(), t.TotalCost.InexactFloat64(), t.TotalProfit.InexactFloat64(),
	); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, cell(1, row), cell(9, row), boldMoney); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "A", "C", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "K", "K", 26); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, row int, values ...any) error {
	return f.SetSheetRow(sheetName, cell(1, row), &values)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
