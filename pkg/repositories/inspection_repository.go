package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/denimworks/qc-engine/pkg/apperrors"
	"github.com/denimworks/qc-engine/pkg/database"
	"github.com/denimworks/qc-engine/pkg/models"
)

// InspectionRepository defines data access for inspections and their defects.
type InspectionRepository interface {
	// Create inserts the inspection and all its defects as one transaction.
	// Generated IDs and the inspection timestamp are written back onto the
	// passed structs. Partial writes never survive: either the whole record
	// graph commits or nothing does.
	Create(ctx context.Context, inspection *models.Inspection) error

	// List returns one page of inspections newest-first, each with its
	// defects, batch, and product, plus the total row count.
	List(ctx context.Context, limit, page int) ([]models.Inspection, int64, error)

	// Get returns one inspection with all relations, or ErrNotFound.
	Get(ctx context.Context, id int64) (*models.Inspection, error)

	// Delete removes an inspection; its defects go with it via cascade.
	// Batch counters are not adjusted.
	Delete(ctx context.Context, id int64) error
}

type inspectionRepository struct {
	db *database.DB
}

// NewInspectionRepository creates a new inspection repository.
func NewInspectionRepository(db *database.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

// Create implements InspectionRepository.
func (r *inspectionRepository) Create(ctx context.Context, inspection *models.Inspection) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO inspecciones (id_lote, id_producto, id_usuario, imagen_base64,
			resultado, recomendacion, puntuacion_calidad, resumen_analisis,
			notas_ia, respuesta_completa_ia, tiempo_analisis_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id_inspeccion, fecha_inspeccion`

	err = tx.QueryRow(ctx, query,
		inspection.BatchID,
		inspection.ProductID,
		inspection.OperatorID,
		inspection.ImageBase64,
		inspection.Outcome,
		inspection.Recommendation,
		inspection.QualityScore,
		inspection.Summary,
		inspection.Notes,
		inspection.RawResponse,
		inspection.AnalysisMs,
	).Scan(&inspection.ID, &inspection.InspectedAt)
	if err != nil {
		return fmt.Errorf("failed to insert inspection: %w", err)
	}

	defectQuery := `
		INSERT INTO defectos (id_inspeccion, tipo, severidad, ubicacion,
			confianza, descripcion, recomendacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_defecto`

	for i := range inspection.Defects {
		d := &inspection.Defects[i]
		d.InspectionID = inspection.ID
		err := tx.QueryRow(ctx, defectQuery,
			d.InspectionID,
			d.Type,
			d.Severity,
			d.Location,
			d.Confidence,
			d.Description,
			d.Recommendation,
		).Scan(&d.ID)
		if err != nil {
			return fmt.Errorf("failed to insert defect: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit inspection: %w", err)
	}
	return nil
}

const inspectionJoinQuery = `
	SELECT i.id_inspeccion, i.id_lote, i.id_producto, i.id_usuario,
	       i.imagen_base64, i.resultado, i.recomendacion, i.puntuacion_calidad,
	       i.resumen_analisis, i.notas_ia, i.respuesta_completa_ia,
	       i.tiempo_analisis_ms, i.fecha_inspeccion,
	       l.id_lote, l.numero_lote, l.fecha_creacion, l.cantidad_total,
	       l.cantidad_inspeccionada, l.cantidad_aprobada, l.cantidad_rechazada, l.estado,
	       p.id_producto, p.nombre, p.descripcion, p.especificaciones_calidad,
	       p.activo, p.fecha_creacion
	FROM inspecciones i
	JOIN lotes_produccion l ON l.id_lote = i.id_lote
	JOIN productos p ON p.id_producto = i.id_producto`

func scanInspectionRow(row pgx.Row) (*models.Inspection, error) {
	var insp models.Inspection
	var batch models.ProductionBatch
	var product models.Product

	err := row.Scan(
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
		&batch.ID,
		&batch.BatchNumber,
		&batch.CreatedAt,
		&batch.TotalCount,
		&batch.InspectedCount,
		&batch.ApprovedCount,
		&batch.RejectedCount,
		&batch.State,
		&product.ID,
		&product.Name,
		&product.Description,
		&product.QualitySpec,
		&product.Active,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	insp.Batch = &batch
	insp.Product = &product
	insp.Defects = []models.Defect{}
	return &insp, nil
}

// List implements InspectionRepository.
func (r *inspectionRepository) List(ctx context.Context, limit, page int) ([]models.Inspection, int64, error) {
	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := inspectionJoinQuery + `
	ORDER BY i.fecha_inspeccion DESC
	LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	inspections := []models.Inspection{}
	for rows.Next() {
		insp, err := scanInspectionRow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan inspection: %w", err)
		}
		inspections = append(inspections, *insp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read inspections: %w", err)
	}

	if err := r.attachDefects(ctx, inspections); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inspecciones`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count inspections: %w", err)
	}

	return inspections, total, nil
}

// attachDefects loads the defect rows for a page of inspections in one query.
func (r *inspectionRepository) attachDefects(ctx context.Context, inspections []models.Inspection) error {
	if len(inspections) == 0 {
		return nil
	}

	ids := make([]int64, len(inspections))
	byID := make(map[int64]*models.Inspection, len(inspections))
	for i := range inspections {
		ids[i] = inspections[i].ID
		byID[inspections[i].ID] = &inspections[i]
	}

	query := `
		SELECT id_defecto, id_inspeccion, tipo, severidad, ubicacion,
		       confianza, descripcion, recomendacion
		FROM defectos
		WHERE id_inspeccion = ANY($1)
		ORDER BY id_defecto`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load defects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d models.Defect
		err := rows.Scan(
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
			return fmt.Errorf("failed to scan defect: %w", err)
		}
		if insp, ok := byID[d.InspectionID]; ok {
			insp.Defects = append(insp.Defects, d)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read defects: %w", err)
	}
	return nil
}

// Get implements InspectionRepository.
func (r *inspectionRepository) Get(ctx context.Context, id int64) (*models.Inspection, error) {
	query := inspectionJoinQuery + `
	WHERE i.id_inspeccion = $1`

	insp, err := scanInspectionRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}

	single := []models.Inspection{*insp}
	if err := r.attachDefects(ctx, single); err != nil {
		return nil, err
	}
	insp = &single[0]

	if insp.OperatorID != nil {
		var op models.Operator
		err := r.db.QueryRow(ctx,
			`SELECT id_usuario, nombre_usuario FROM usuarios WHERE id_usuario = $1`,
			*insp.OperatorID,
		).Scan(&op.ID, &op.Username)
		if err == nil {
			insp.Operator = &op
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to get operator: %w", err)
		}
	}

	return insp, nil
}

// Delete implements InspectionRepository.
func (r *inspectionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM inspecciones WHERE id_inspeccion = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inspection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure inspectionRepository implements InspectionRepository at compile time.
var _ InspectionRepository = (*inspectionRepository)(nil)
