package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jhoicas/Rentabilidad-api/internal/domain"
	"github.com/jhoicas/Rentabilidad-api/internal/domain/repository"
	"github.com/jhoicas/Rentabilidad-api/pkg/logger"
)

// Formatos de exportación.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

const dateLayout = "2006-01-02"

// ProfitReport reporte listo para exportar.
type ProfitReport struct {
	BusinessName string
	Start        time.Time
	End          time.Time
	GeneratedAt  time.Time
	GeneratedBy  string
	Lines        []ProfitLine
	Totals       ProfitTotals
}

// Exporter serializa un reporte en un formato.
type Exporter interface {
	Export(w io.Writer, r *ProfitReport) error
	ContentType() string
	Extension() string
}

// GenerateInput parámetros de generación (fechas YYYY-MM-DD, ambas inclusive).
type GenerateInput struct {
	BusinessID  string
	StartDate   string
	EndDate     string
	Format      string
	GeneratedBy string
}

// File resultado exportado.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Attachment  bool
}

// ProfitReportUseCase valida formato y período, agrega y exporta.
type ProfitReportUseCase struct {
	aggregator *ProfitAggregator
	businesses repository.BusinessRepository
	exporters  map[string]Exporter
	loc        *time.Location
	log        *logger.Logger
}

// NewProfitReportUseCase construye el caso de uso. exporters se indexa por formato (xlsx, csv, json).
func NewProfitReportUseCase(
	aggregator *ProfitAggregator,
	businesses repository.BusinessRepository,
	exporters map[string]Exporter,
	loc *time.Location,
	log *logger.Logger,
) *ProfitReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ProfitReportUseCase{
		aggregator: aggregator,
		businesses: businesses,
		exporters:  exporters,
		loc:        loc,
		log:        log.Component("profit_report"),
	}
}

// NormalizeFormat valida el formato pedido. pdf se rechaza siempre; vacío = xlsx.
func NormalizeFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatCSV, FormatJSON:
		return f, nil
	case FormatPDF:
		return "", domain.ErrPDFDisabled
	default:
		return "", fmt.Errorf("%w: %q (use xlsx, csv o json)", domain.ErrUnsupportedFormat, format)
	}
}

// Build valida el período y agrega sin exportar.
func (uc *ProfitReportUseCase) Build(ctx context.Context, in GenerateInput) (*ProfitReport, error) {
	start, end, err := parsePeriod(in.StartDate, in.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	lines, totals, err := uc.aggregator.Aggregate(ctx, in.BusinessID, start, end)
	if err != nil {
		return nil, err
	}
	name := in.BusinessID
	business, err := uc.businesses.GetByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	if business != nil {
		name = business.Name
	}
	return &ProfitReport{
		BusinessName: name,
		Start:        start,
		End:          end,
		GeneratedAt:  time.Now().In(uc.loc),
		GeneratedBy:  in.GeneratedBy,
		Lines:        lines,
		Totals:       totals,
	}, nil
}

// Generate valida formato y fechas antes de consultar ventas, agrega y exporta.
func (uc *ProfitReportUseCase) Generate(ctx context.Context, in GenerateInput) (*File, error) {
	format, err := NormalizeFormat(in.Format)
	if err != nil {
		return nil, err
	}
	exporter, ok := uc.exporters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
	rep, err := uc.Build(ctx, in)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, rep); err != nil {
		return nil, fmt.Errorf("exportar reporte %s: %w", format, err)
	}

	reconstructed := 0
	for _, l := range rep.Lines {
		if l.Reconstructed {
			reconstructed++
		}
	}
	uc.log.Info().
		Str("business_id", in.BusinessID).
		Str("format", format).
		Int("lines", len(rep.Lines)).
		Int("reconstructed", reconstructed).
		Msg("reporte de rentabilidad generado")

	return &File{
		Name: fmt.Sprintf("reporte_rentabilidad_%s_%s.%s",
			rep.Start.Format(dateLayout), rep.End.Format(dateLayout), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Data:        buf.Bytes(),
		Attachment:  format != FormatJSON,
	}, nil
}

// parsePeriod convierte las fechas en el rango [inicio del día start, fin del día end].
func parsePeriod(startStr, endStr string, loc *time.Location) (start, end time.Time, err error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date y end_date son obligatorios", domain.ErrInvalidInput)
	}
	start, err = time.ParseInLocation(dateLayout, startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date inválido", domain.ErrInvalidInput)
	}
	end, err = time.ParseInLocation(dateLayout, endStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date inválido", domain.ErrInvalidInput)
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond) // inclusive hasta el final del día
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date no puede ser posterior a end_date", domain.ErrInvalidInput)
	}
	return start, end, nil
}
