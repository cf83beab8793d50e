package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrValidation        = errors.New("validación fallida")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConfiguration     = errors.New("configuración incompleta")
	ErrUnsupportedFormat = errors.New("formato de reporte no soportado")
	// ErrPDFDisabled es intencional: el reporte de rentabilidad no se renderiza en PDF.
	ErrPDFDisabled = errors.New("la exportación a PDF está deshabilitada, use Excel o CSV")
)
