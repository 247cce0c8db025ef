package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/denimworks/qc-engine/pkg/database"
	"github.com/denimworks/qc-engine/pkg/models"
)

// StatsRepository computes dashboard aggregates. A nil since filter means
// unbounded (all history).
type StatsRepository interface {
	Summary(ctx context.Context, since *time.Time) (*models.StatsSummary, error)
	DefectsBySeverity(ctx context.Context, since *time.Time) (*models.SeverityCounts, error)
	TopDefectTypes(ctx context.Context, since *time.Time, limit int) ([]models.DefectTypeCount, error)
	RecentInspections(ctx context.Context, limit int) ([]models.Inspection, error)
}

type statsRepository struct {
	db *database.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *database.DB) StatsRepository {
	return &statsRepository{db: db}
}

// Summary implements StatsRepository. Rejected counts follow the same
// outcome policy as batch counters: everything that is not approved
// (defects_found and error alike) counts as rejected.
func (r *statsRepository) Summary(ctx context.Context, since *time.Time) (*models.StatsSummary, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE resultado = 'approved'),
		       COUNT(*) FILTER (WHERE resultado <> 'approved'),
		       COALESCE(ROUND(AVG(puntuacion_calidad)), 0)::int
		FROM inspecciones
		WHERE $1::timestamptz IS NULL OR fecha_inspeccion >= $1`

	var s models.StatsSummary
	err := r.db.QueryRow(ctx, query, since).Scan(&s.Total, &s.Approved, &s.Rejected, &s.AvgQuality)
	if err != nil {
		return nil, fmt.Errorf("failed to compute summary: %w", err)
	}
	return &s, nil
}

// DefectsBySeverity implements StatsRepository.
func (r *statsRepository) DefectsBySeverity(ctx context.Context, since *time.Time) (*models.SeverityCounts, error) {
	query := `
		SELECT d.severidad, COUNT(*)
		FROM defectos d
		JOIN inspecciones i ON i.id_inspeccion = d.id_inspeccion
		WHERE $1::timestamptz IS NULL OR i.fecha_inspeccion >= $1
		GROUP BY d.severidad`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to group defects by severity: %w", err)
	}
	defer rows.Close()

	var counts models.SeverityCounts
	for rows.Next() {
		var severity string
		var count int64
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan severity count: %w", err)
		}
		switch severity {
		case models.SeverityCritical:
			counts.Critical = count
		case models.SeverityMajor:
			counts.Major = count
		case models.SeverityMinor:
			counts.Minor = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read severity counts: %w", err)
	}
	return &counts, nil
}

// TopDefectTypes implements StatsRepository.
func (r *statsRepository) TopDefectTypes(ctx context.Context, since *time.Time, limit int) ([]models.DefectTypeCount, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT d.tipo, COUNT(*)
		FROM defectos d
		JOIN inspecciones i ON i.id_inspeccion = d.id_inspeccion
		WHERE $1::timestamptz IS NULL OR i.fecha_inspeccion >= $1
		GROUP BY d.tipo
		ORDER BY COUNT(*) DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank defect types: %w", err)
	}
	defer rows.Close()

	types := []models.DefectTypeCount{}
	for rows.Next() {
		var t models.DefectTypeCount
		if err := rows.Scan(&t.Type, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan defect type count: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read defect type counts: %w", err)
	}
	return types, nil
}

// RecentInspections implements StatsRepository. Rows carry their defects
// but not the batch/product relations; the dashboard panel does not need
// them.
func (r *statsRepository) RecentInspections(ctx context.Context, limit int) ([]models.Inspection, error) {
	if limit <= 0 {
		limit = 5
	}

	query := `
		SELECT id_inspeccion, id_lote, id_producto, id_usuario, imagen_base64,
		       resultado, recomendacion, puntuacion_calidad, resumen_analisis,
		       notas_ia, respuesta_completa_ia, tiempo_analisis_ms, fecha_inspeccion
		FROM inspecciones
		ORDER BY fecha_inspeccion DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent inspections: %w", err)
	}
	defer rows.Close()

	inspections := []models.Inspection{}
	for rows.Next() {
		var insp models.Inspection
		err := rows.Scan(
			&insp.ID,
			&insp.BatchID,
			&insp.ProductID,
			&insp.OperatorID,
			&insp.ImageBase64,
			&insp.Outcome,
			&insp.Recommendation,
			&insp.QualityScore,
			&insp.Summary,
			&insp.Notes,
			&insp.RawResponse,
			&insp.AnalysisMs,
			&insp.InspectedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		insp.Defects = []models.Defect{}
		inspections = append(inspections, insp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recent inspections: %w", err)
	}

	byID := make(map[int64]*models.Inspection, len(inspections))
	ids := make([]int64, len(inspections))
	for i := range inspections {
		ids[i] = inspections[i].ID
		byID[inspections[i].ID] = &inspections[i]
	}
	if len(ids) > 0 {
		defectRows, err := r.db.Query(ctx, `
			SELECT id_defecto, id_inspeccion, tipo, severidad, ubicacion,
			       confianza, descripcion, recomendacion
			FROM defectos
			WHERE id_inspeccion = ANY($1)
			ORDER BY id_defecto`, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load defects: %w", err)
		}
		defer defectRows.Close()

		for defectRows.Next() {
			var d models.Defect
			err := defectRows.Scan(
				&d.ID,
				&d.InspectionID,
				&d.Type,
				&d.Severity,
				&d.Location,
				&d.Confidence,
				&d.Description,
				&d.Recommendation,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to scan defect: %w", err)
			}
			if insp, ok := byID[d.InspectionID]; ok {
				insp.Defects = append(insp.Defects, d)
			}
		}
		if err := defectRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to read defects: %w", err)
		}
	}

	return inspections, nil
}

// Ensure statsRepository implements StatsRepository at compile time.
var _ StatsRepository = (*statsRepository)(nil)
