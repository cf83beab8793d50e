// Package export serializa el reporte de rentabilidad en Excel, CSV y JSON.
package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Rentabilidad-api/internal/domain/costing"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// columnas de la tabla de detalle, en orden.
var lineHeaders = []string{
	"Fecha", "Venta", "Producto", "Cantidad", "Precio unitario", "Costo unitario",
	"Total", "Costo", "Utilidad", "Origen del costo", "Nota",
}

// NumberFormatter formatea montos para las filas de encabezado según el locale del reporte.
type NumberFormatter struct {
	p *message.Printer
}

// NewNumberFormatter usa el locale BCP 47 dado; si no es válido usa español.
func NewNumberFormatter(locale string) *NumberFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Spanish
	}
	return &NumberFormatter{p: message.NewPrinter(tag)}
}

// Money formatea con separadores de miles y dos decimales. Solo para presentación.
func (f *NumberFormatter) Money(d decimal.Decimal) string {
	return f.p.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func sourceLabel(source string) string {
	switch source {
	case costing.SourceSnapshot:
		return "Venta"
	case costing.SourceLedger:
		return "Histórico"
	case costing.SourceCurrent:
		return "Actual"
	default:
		return "Sin costo"
	}
}
