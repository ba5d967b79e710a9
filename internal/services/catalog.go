package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/electrostore/electrostore/internal/cache"
	"github.com/electrostore/electrostore/internal/catalog"
	"github.com/electrostore/electrostore/internal/db"
	"github.com/electrostore/electrostore/internal/logging"
	"github.com/electrostore/electrostore/internal/models"
)

const categoriesCacheTTL = 5 * time.Minute

type productRepository interface {
	Create(ctx context.Context, input models.ProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter db.ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input models.ProductInput) (*models.Product, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddImage(ctx context.Context, id uuid.UUID, url string) (*models.Product, error)
}

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, input models.CategoryInput) (*models.Category, error)
}

type bannerRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	Create(ctx context.Context, input models.BannerInput) (*models.Banner, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type imageUploader interface {
	Upload(ctx context.Context, productID uuid.UUID, contentType string, size int64, r io.Reader) (string, error)
}

// StorefrontProduct is a product as shoppers see it, with its offer.
type StorefrontProduct struct {
	models.Product
	Offer catalog.Offer `json:"offer"`
}

func newStorefrontProduct(product models.Product) StorefrontProduct {
	return StorefrontProduct{
		Product: product,
		Offer:   catalog.CalculateOffer(product.Price, product.CompareAtPrice),
	}
}

type StorefrontFilter struct {
	CategoryID *uuid.UUID
	OffersOnly bool
	Search     string
	Limit      int
	Offset     int
}

const maxPageSize = 100

type CatalogService struct {
	products   productRepository
	categories categoryRepository
	banners    bannerRepository
	images     imageUploader
	cache      cache.Provider
	logger     *slog.Logger
}

type CatalogDependencies struct {
	Products   productRepository
	Categories categoryRepository
	Banners    bannerRepository
	Images     imageUploader
	Cache      cache.Provider
	Logger     *slog.Logger
}

func NewCatalogService(deps CatalogDependencies) (*CatalogService, error) {
	if deps.Products == nil {
		return nil, fmt.Errorf("catalog service: products repository is required")
	}
	if deps.Categories == nil {
		return nil, fmt.Errorf("catalog service: categories repository is required")
	}
	if deps.Banners == nil {
		return nil, fmt.Errorf("catalog service: banners repository is required")
	}
	if deps.Cache == nil {
		return nil, fmt.Errorf("catalog service: cache provider is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CatalogService{
		products:   deps.Products,
		categories: deps.Categories,
		banners:    deps.Banners,
		images:     deps.Images,
		cache:      deps.Cache,
		logger:     logger,
	}, nil
}

func (s *CatalogService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

// ListStorefront returns active products with their offers. OffersOnly keeps
// only products whose compare-at price is above the current price.
func (s *CatalogService) ListStorefront(ctx context.Context, filter StorefrontFilter) ([]StorefrontProduct, error) {
	products, err := s.products.List(ctx, db.ProductFilter{
		ActiveOnly: true,
		OffersOnly: filter.OffersOnly,
		CategoryID: filter.CategoryID,
		Search:     filter.Search,
		Limit:      clampPageSize(filter.Limit),
		Offset:     max(filter.Offset, 0),
	})
	if err != nil {
		return nil, err
	}

	result := make([]StorefrontProduct, 0, len(products))
	for _, product := range products {
		result = append(result, newStorefrontProduct(product))
	}
	return result, nil
}

func clampPageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

// GetProduct returns an active product. Hidden products are reported as not
// found.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*StorefrontProduct, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product %s: %w", id, db.ErrNotFound)
	}
	result := newStorefrontProduct(*product)
	return &result, nil
}

func (s *CatalogService) ListAll(ctx context.Context, search string) ([]models.Product, error) {
	return s.products.List(ctx, db.ProductFilter{Search: search})
}

func (s *CatalogService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	product, err := s.products.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	s.loggerFromContext(ctx).Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProduct overwrites every field of the product with input.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input models.ProductInput) (*models.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, input)
}

func (s *CatalogService) SetProductActive(ctx context.Context, id uuid.UUID, active bool) error {
	if err := s.products.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.loggerFromContext(ctx).Info("product visibility changed", "product_id", id, "active", active)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.loggerFromContext(ctx).Info("product deleted", "product_id", id)
	return nil
}

// AddProductImage uploads an image and appends its URL to the product.
func (s *CatalogService) AddProductImage(ctx context.Context, id uuid.UUID, contentType string, size int64, r io.Reader) (*models.Product, error) {
	if s.images == nil {
		return nil, ErrImagesUnavailable
	}
	if _, err := s.products.Get(ctx, id); err != nil {
		return nil, err
	}
	url, err := s.images.Upload(ctx, id, contentType, size, r)
	if err != nil {
		return nil, err
	}
	return s.products.AddImage(ctx, id, url)
}

// ListCategories serves from the cache when possible. Cache failures fall
// back to the database.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	logger := s.loggerFromContext(ctx)

	var categories []models.Category
	err := cache.GetJSON(ctx, s.cache, cache.CategoriesKey, &categories)
	if err == nil {
		return categories, nil
	}
	if !errors.Is(err, cache.ErrNotFound) {
		logger.Warn("failed to read categories from cache", "error", err)
	}

	categories, err = s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, s.cache, cache.CategoriesKey, categories, categoriesCacheTTL); err != nil {
		logger.Warn("failed to cache categories", "error", err)
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	category, err := s.categories.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Delete(ctx, cache.CategoriesKey); err != nil {
		s.loggerFromContext(ctx).Warn("failed to invalidate categories cache", "error", err)
	}
	return category, nil
}

func (s *CatalogService) ListActiveBanners(ctx context.Context) ([]models.Banner, error) {
	return s.banners.List(ctx, true)
}

func (s *CatalogService) ListBanners(ctx context.Context) ([]models.Banner, error) {
	return s.banners.List(ctx, false)
}

func (s *CatalogService) CreateBanner(ctx context.Context, input models.BannerInput) (*models.Banner, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	return s.banners.Create(ctx, input)
}

func (s *CatalogService) SetBannerActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.banners.SetActive(ctx, id, active)
}

func (s *CatalogService) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	return s.banners.Delete(ctx, id)
}
