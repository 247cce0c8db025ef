package models

import "time"

// DefaultProductName is the catalog entry every inspection is recorded
// against. The factory currently runs a single line, so the product row is
// created lazily on first use and reused afterwards.
const DefaultProductName = "Jeans"

// Default attributes for the lazily created product row.
const (
	DefaultProductDescription = "Pantalón de mezclilla"
	DefaultProductQualitySpec = "Control de calidad estándar para jeans"
)

// Product is a catalog entry inspections refer to.
type Product struct {
	ID          int64     `json:"idProducto"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	QualitySpec string    `json:"especificacionesCalidad"`
	Active      bool      `json:"activo"`
	CreatedAt   time.Time `json:"fechaCreacion"`
}
