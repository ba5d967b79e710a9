package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/electrostore/electrostore/internal/models"
)

const bannerColumns = `id, title, subtitle, image_url, link_url, position, is_active, created_at`

type BannerStore struct {
	pool *pgxpool.Pool
}

func NewBannerStore(pool *pgxpool.Pool) *BannerStore {
	return &BannerStore{pool: pool}
}

// List returns banners ordered by position. activeOnly hides disabled ones.
func (s *BannerStore) List(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY position, created_at`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer rows.Close()

	banners := []models.Banner{}
	for rows.Next() {
		banner, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		banners = append(banners, *banner)
	}
	return banners, rows.Err()
}

func (s *BannerStore) Create(ctx context.Context, input models.BannerInput) (*models.Banner, error) {
	query := `
		INSERT INTO banners (title, subtitle, image_url, link_url, position, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bannerColumns
	banner, err := scanBanner(s.pool.QueryRow(ctx, query,
		input.Title, input.Subtitle, input.ImageURL, input.LinkURL, input.Position, input.Active,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create banner %q: %w", input.Title, err)
	}
	return banner, nil
}

func (s *BannerStore) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE banners SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("banner: %w", ErrNotFound)
	}
	return nil
}

func (s *BannerStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("banner: %w", ErrNotFound)
	}
	return nil
}

func scanBanner(row rowScanner) (*models.Banner, error) {
	var banner models.Banner
	if err := row.Scan(
		&banner.ID,
		&banner.Title,
		&banner.Subtitle,
		&banner.ImageURL,
		&banner.LinkURL,
		&banner.Position,
		&banner.Active,
		&banner.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &banner, nil
}
