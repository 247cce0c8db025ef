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

// ProductRepository defines data access for catalog products.
type ProductRepository interface {
	// FindOrCreateByName returns the product with the given name, creating
	// it with default attributes when absent. Race-safe via the unique
	// constraint on nombre.
	FindOrCreateByName(ctx context.Context, name string) (*models.Product, error)
}

type productRepository struct {
	db *database.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *database.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id_producto, nombre, descripcion, especificaciones_calidad, activo, fecha_creacion`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.QualitySpec,
		&p.Active,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) getByName(ctx context.Context, name string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM productos WHERE nombre = $1`

	product, err := scanProduct(r.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// FindOrCreateByName implements ProductRepository.
func (r *productRepository) FindOrCreateByName(ctx context.Context, name string) (*models.Product, error) {
	product, err := r.getByName(ctx, name)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO productos (nombre, descripcion, especificaciones_calidad, activo)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (nombre) DO NOTHING
		RETURNING ` + productColumns

	product, err = scanProduct(r.db.QueryRow(ctx, query,
		name,
		models.DefaultProductDescription,
		models.DefaultProductQualitySpec,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.getByName(ctx, name)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Ensure productRepository implements ProductRepository at compile time.
var _ ProductRepository = (*productRepository)(nil)
