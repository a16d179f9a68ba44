package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// ProductsRepository reads the product catalog. The catalog is owned by an
// external store; this repository never writes product rows (the import
// tool does).
type ProductsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewProductsRepository(db *sql.DB, logger *zap.Logger) *ProductsRepository {
	return &ProductsRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `
	product_id, sku, name, category, subcategory, model_family,
	frequency_band, price_cents, cost_cents, inventory_qty,
	lifecycle_status, supported_architectures`

// GetProductsByCategory returns active catalog products in one category,
// in stable SKU order.
func (r *ProductsRepository) GetProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1 AND lifecycle_status = 'active'
		ORDER BY sku`

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by category: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// GetProduct returns one product by SKU, or nil when the SKU is unknown.
func (r *ProductsRepository) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE sku = $1`

	row := r.db.QueryRowContext(ctx, query, sku)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var archJSON []byte
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Subcategory, &p.ModelFamily,
		&p.FrequencyBand, &p.PriceCents, &p.CostCents, &p.InventoryQty,
		&p.LifecycleStatus, &archJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	if len(archJSON) > 0 {
		if err := json.Unmarshal(archJSON, &p.SupportedArchitectures); err != nil {
			return nil, fmt.Errorf("failed to parse supported_architectures for %s: %w", p.SKU, err)
		}
	}
	return &p, nil
}
