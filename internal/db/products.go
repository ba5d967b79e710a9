package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/electrostore/electrostore/internal/models"
)

const productColumns = `id, name, description, price::float8, compare_at_price::float8, stock,
	category_id, images, main_image, specifications, is_active, created_at, updated_at`

// ProductFilter narrows product listings. Zero values mean no filter.
type ProductFilter struct {
	ActiveOnly bool
	OffersOnly bool
	CategoryID *uuid.UUID
	Search     string
	Limit      int
	Offset     int
}

type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

func (s *ProductStore) Create(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	product := input.ToProduct(uuid.Nil)
	query := `
		INSERT INTO products (name, description, price, compare_at_price, stock, category_id,
			images, main_image, specifications, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns
	row := s.pool.QueryRow(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.CompareAtPrice,
		product.Stock,
		product.CategoryID,
		product.Images,
		product.MainImage,
		product.Specs,
		product.Active,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, createProductError(err)
	}
	return created, nil
}

// createProductError leaves the product name out; bulk import prefixes
// every failure with it.
func createProductError(err error) error {
	return fmt.Errorf("failed to create product: %w", err)
}

// CreateProduct lets the store act as the bulk importer's creator.
func (s *ProductStore) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	return s.Create(ctx, input)
}

func (s *ProductStore) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

func (s *ProductStore) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query, args := buildProductQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func buildProductQuery(filter ProductFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}
	if filter.OffersOnly {
		conditions = append(conditions, "compare_at_price IS NOT NULL AND compare_at_price > price")
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = "+arg(*filter.CategoryID))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, "name ILIKE "+arg("%"+search+"%"))
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(conditions) > 0 {
		b.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		b.WriteString(" OFFSET " + arg(filter.Offset))
	}
	return b.String(), args
}

// Update overwrites every editable field of the product.
func (s *ProductStore) Update(ctx context.Context, id uuid.UUID, input models.ProductInput) (*models.Product, error) {
	product := input.ToProduct(id)
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, compare_at_price = $5, stock = $6,
			category_id = $7, images = $8, main_image = $9, specifications = $10,
			is_active = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns
	row := s.pool.QueryRow(ctx, query,
		id,
		product.Name,
		product.Description,
		product.Price,
		product.CompareAtPrice,
		product.Stock,
		product.CategoryID,
		product.Images,
		product.MainImage,
		product.Specs,
		product.Active,
	)
	updated, err := scanProduct(row)
	if err != nil {
		return nil, notFound(err, "product")
	}
	return updated, nil
}

func (s *ProductStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product: %w", ErrNotFound)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product: %w", ErrNotFound)
	}
	return nil
}

// AddImage appends an image URL. The first image also becomes the main image.
func (s *ProductStore) AddImage(ctx context.Context, id uuid.UUID, url string) (*models.Product, error) {
	query := `
		UPDATE products
		SET images = array_append(images, $2), main_image = COALESCE(main_image, $2), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns
	product, err := scanProduct(s.pool.QueryRow(ctx, query, id, url))
	if err != nil {
		return nil, notFound(err, "product")
	}
	return product, nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var product models.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.CompareAtPrice,
		&product.Stock,
		&product.CategoryID,
		&product.Images,
		&product.MainImage,
		&product.Specs,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.Specs == nil {
		product.Specs = map[string]string{}
	}
	return &product, nil
}
