package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/electrostore/electrostore/internal/models"
)

var ErrDuplicate = errors.New("record already exists")

const uniqueViolation = "23505"

type CategoryStore struct {
	pool *pgxpool.Pool
}

func NewCategoryStore(pool *pgxpool.Pool) *CategoryStore {
	return &CategoryStore{pool: pool}
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, parent_id FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.ParentID); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) Create(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	var category models.Category
	err := s.pool.QueryRow(ctx,
		`INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id, name, parent_id`,
		input.Name, input.ParentID,
	).Scan(&category.ID, &category.Name, &category.ParentID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("category %q: %w", input.Name, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create category %q: %w", input.Name, err)
	}
	return &category, nil
}
