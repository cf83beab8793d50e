package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Rentabilidad-api/internal/application/dto"
	"github.com/jhoicas/Rentabilidad-api/internal/application/report"
)

// ReportHandler expone el reporte de rentabilidad (protegido, solo roles con acceso a costos).
type ReportHandler struct {
	uc *report.ProfitReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ProfitReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Profit godoc
// @Summary      Reporte de rentabilidad
// @Description  Ventas del período (fechas inclusive) con costo, utilidad y totales. Formatos: xlsx (por defecto), csv, json. pdf está deshabilitado.
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Produce      json
// @Param        start_date  query  string  true   "Fecha inicial (YYYY-MM-DD)"
// @Param        end_date    query  string  true   "Fecha final (YYYY-MM-DD)"
// @Param        format      query  string  false  "xlsx | csv | json"  default(xlsx)
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit [get]
func (h *ReportHandler) Profit(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return unauthorized(c)
	}
	var q dto.ProfitReportQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	// El formato se valida antes que las fechas: pdf siempre responde PDF_DISABLED.
	if _, err := report.NormalizeFormat(q.Format); err != nil {
		return writeError(c, err, "")
	}
	if msg := validationMessage(q); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}

	file, err := h.uc.Generate(c.UserContext(), report.GenerateInput{
		BusinessID:  businessID,
		StartDate:   q.StartDate,
		EndDate:     q.EndDate,
		Format:      q.Format,
		GeneratedBy: GetUserID(c),
	})
	if err != nil {
		return writeError(c, err, "")
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	if file.Attachment {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	}
	return c.Status(fiber.StatusOK).Send(file.Data)
}
