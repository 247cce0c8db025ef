package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/denimworks/qc-engine/pkg/apperrors"
	"github.com/denimworks/qc-engine/pkg/database"
	"github.com/denimworks/qc-engine/pkg/models"
)

// BatchRepository defines data access for daily production batches.
type BatchRepository interface {
	// FindOrCreateForDate returns the batch for the given date, creating it
	// if it does not exist yet. Safe under concurrent callers: the unique
	// constraint on numero_lote guarantees a single row per day, and a
	// losing inserter falls back to re-reading the winner's row.
	FindOrCreateForDate(ctx context.Context, day time.Time) (*models.ProductionBatch, error)

	// RecordOutcome bumps the batch counters for one completed inspection:
	// total and inspected always, and exactly one of approved/rejected.
	// Increments happen in the database, not read-modify-write.
	RecordOutcome(ctx context.Context, batchID int64, approved bool) error

	// List returns all batches newest-first with their inspection counts.
	List(ctx context.Context) ([]models.BatchWithCount, error)

	// Latest returns the most recently created batch, or ErrNotFound.
	Latest(ctx context.Context) (*models.ProductionBatch, error)
}

// BatchNumberForDate derives the deterministic batch key for a calendar day.
func BatchNumberForDate(t time.Time) string {
	return "LOTE-" + t.Format("20060102")
}

type batchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository.
func NewBatchRepository(db *database.DB) BatchRepository {
	return &batchRepository{db: db}
}

const batchColumns = `id_lote, numero_lote, fecha_creacion, cantidad_total,
	cantidad_inspeccionada, cantidad_aprobada, cantidad_rechazada, estado`

func scanBatch(row pgx.Row) (*models.ProductionBatch, error) {
	var b models.ProductionBatch
	err := row.Scan(
		&b.ID,
		&b.BatchNumber,
		&b.CreatedAt,
		&b.TotalCount,
		&b.InspectedCount,
		&b.ApprovedCount,
		&b.RejectedCount,
		&b.State,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *batchRepository) getByNumber(ctx context.Context, number string) (*models.ProductionBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM lotes_produccion WHERE numero_lote = $1`

	batch, err := scanBatch(r.db.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	return batch, nil
}

// FindOrCreateForDate implements BatchRepository.
func (r *batchRepository) FindOrCreateForDate(ctx context.Context, day time.Time) (*models.ProductionBatch, error) {
	number := BatchNumberForDate(day)

	batch, err := r.getByNumber(ctx, number)
	if err == nil {
		return batch, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO lotes_produccion (numero_lote, fecha_creacion, estado)
		VALUES ($1, $2, $3)
		ON CONFLICT (numero_lote) DO NOTHING
		RETURNING ` + batchColumns

	batch, err = scanBatch(r.db.QueryRow(ctx, query, number, day, models.BatchStateInProgress))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A concurrent caller inserted the row between our lookup and
			// insert; read theirs.
			return r.getByNumber(ctx, number)
		}
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}
	return batch, nil
}

// RecordOutcome implements BatchRepository.
func (r *batchRepository) RecordOutcome(ctx context.Context, batchID int64, approved bool) error {
	query := `
		UPDATE lotes_produccion
		SET cantidad_total = cantidad_total + 1,
		    cantidad_inspeccionada = cantidad_inspeccionada + 1,
		    cantidad_aprobada = cantidad_aprobada + CASE WHEN $2 THEN 1 ELSE 0 END,
		    cantidad_rechazada = cantidad_rechazada + CASE WHEN $2 THEN 0 ELSE 1 END
		WHERE id_lote = $1`

	result, err := r.db.Exec(ctx, query, batchID, approved)
	if err != nil {
		return fmt.Errorf("failed to update batch counters: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// List implements BatchRepository.
func (r *batchRepository) List(ctx context.Context) ([]models.BatchWithCount, error) {
	query := `
		SELECT l.id_lote, l.numero_lote, l.fecha_creacion, l.cantidad_total,
		       l.cantidad_inspeccionada, l.cantidad_aprobada, l.cantidad_rechazada,
		       l.estado, COUNT(i.id_inspeccion)
		FROM lotes_produccion l
		LEFT JOIN inspecciones i ON i.id_lote = l.id_lote
		GROUP BY l.id_lote
		ORDER BY l.fecha_creacion DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close()

	batches := []models.BatchWithCount{}
	for rows.Next() {
		var b models.BatchWithCount
		err := rows.Scan(
			&b.ID,
			&b.BatchNumber,
			&b.CreatedAt,
			&b.TotalCount,
			&b.InspectedCount,
			&b.ApprovedCount,
			&b.RejectedCount,
			&b.State,
			&b.InspectionCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batches: %w", err)
	}
	return batches, nil
}

// Latest implements BatchRepository.
func (r *batchRepository) Latest(ctx context.Context) (*models.ProductionBatch, error) {
	query := `SELECT ` + batchColumns + `
		FROM lotes_produccion
		ORDER BY fecha_creacion DESC
		LIMIT 1`

	batch, err := scanBatch(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest batch: %w", err)
	}
	return batch, nil
}

// Ensure batchRepository implements BatchRepository at compile time.
var _ BatchRepository = (*batchRepository)(nil)
