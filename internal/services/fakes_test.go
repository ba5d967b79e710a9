package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v84"

	"github.com/electrostore/electrostore/internal/db"
	"github.com/electrostore/electrostore/internal/email"
	"github.com/electrostore/electrostore/internal/models"
	"github.com/electrostore/electrostore/internal/stripe"
)

type fakeProducts struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	order    []uuid.UUID
	filters  []db.ProductFilter
	failOn   map[string]error
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, input models.ProductInput) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[input.Name]; ok {
		return nil, err
	}
	product := input.ToProduct(uuid.New())
	f.products[product.ID] = product
	f.order = append(f.order, product.ID)
	return product, nil
}

func (f *fakeProducts) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	return f.Create(ctx, input)
}

func (f *fakeProducts) Get(_ context.Context, id uuid.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product: %w", db.ErrNotFound)
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProducts) List(_ context.Context, filter db.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	var result []models.Product
	for _, id := range f.order {
		product := f.products[id]
		if filter.ActiveOnly && !product.Active {
			continue
		}
		if filter.OffersOnly && (product.CompareAtPrice == nil || *product.CompareAtPrice <= product.Price) {
			continue
		}
		if filter.CategoryID != nil && (product.CategoryID == nil || *product.CategoryID != *filter.CategoryID) {
			continue
		}
		result = append(result, *product)
	}
	return result, nil
}

func (f *fakeProducts) Update(_ context.Context, id uuid.UUID, input models.ProductInput) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return nil, fmt.Errorf("product: %w", db.ErrNotFound)
	}
	product := input.ToProduct(id)
	f.products[id] = product
	return product, nil
}

func (f *fakeProducts) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return fmt.Errorf("product: %w", db.ErrNotFound)
	}
	product.Active = active
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return fmt.Errorf("product: %w", db.ErrNotFound)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProducts) AddImage(_ context.Context, id uuid.UUID, url string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product: %w", db.ErrNotFound)
	}
	product.Images = append(product.Images, url)
	if product.MainImage == nil {
		main := url
		product.MainImage = &main
	}
	copied := *product
	return &copied, nil
}

type fakeCategories struct {
	categories []models.Category
	listCalls  int
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	f.listCalls++
	return append([]models.Category(nil), f.categories...), nil
}

func (f *fakeCategories) Create(_ context.Context, input models.CategoryInput) (*models.Category, error) {
	category := models.Category{ID: uuid.New(), Name: input.Name, ParentID: input.ParentID}
	f.categories = append(f.categories, category)
	return &category, nil
}

type fakeBanners struct {
	banners []models.Banner
}

func (f *fakeBanners) List(_ context.Context, activeOnly bool) ([]models.Banner, error) {
	var result []models.Banner
	for _, banner := range f.banners {
		if activeOnly && !banner.Active {
			continue
		}
		result = append(result, banner)
	}
	return result, nil
}

func (f *fakeBanners) Create(_ context.Context, input models.BannerInput) (*models.Banner, error) {
	banner := models.Banner{ID: uuid.New(), Title: input.Title, ImageURL: input.ImageURL, Position: input.Position, Active: input.Active}
	f.banners = append(f.banners, banner)
	return &banner, nil
}

func (f *fakeBanners) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	for i := range f.banners {
		if f.banners[i].ID == id {
			f.banners[i].Active = active
			return nil
		}
	}
	return fmt.Errorf("banner: %w", db.ErrNotFound)
}

func (f *fakeBanners) Delete(_ context.Context, id uuid.UUID) error {
	for i := range f.banners {
		if f.banners[i].ID == id {
			f.banners = append(f.banners[:i], f.banners[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("banner: %w", db.ErrNotFound)
}

type fakeUploader struct {
	uploads []string
}

func (f *fakeUploader) Upload(_ context.Context, productID uuid.UUID, contentType string, _ int64, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://cdn.example/products/%s/%d", productID, len(f.uploads))
	f.uploads = append(f.uploads, contentType)
	return url, nil
}

type fakeOrders struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]*models.Order
	sessions   map[uuid.UUID]string
	createErr  error
	paidEmails map[uuid.UUID]string
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{
		orders:     map[uuid.UUID]*models.Order{},
		sessions:   map[uuid.UUID]string{},
		paidEmails: map[uuid.UUID]string{},
	}
}

func (f *fakeOrders) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = uuid.New()
	copied := *order
	f.orders[order.ID] = &copied
	return nil
}

func (f *fakeOrders) SetCheckoutSession(_ context.Context, orderID uuid.UUID, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[orderID] = sessionID
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order: %w", db.ErrNotFound)
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, orderID uuid.UUID, customerEmail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.Status != models.StatusPendingPayment {
		return fmt.Errorf("%w: expected pending_payment", db.ErrInvalidStatusTransition)
	}
	order.Status = models.StatusPaid
	order.CustomerEmail = customerEmail
	f.paidEmails[orderID] = customerEmail
	return nil
}

func (f *fakeOrders) MarkExpired(_ context.Context, orderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.Status != models.StatusPendingPayment {
		return fmt.Errorf("%w: expected pending_payment", db.ErrInvalidStatusTransition)
	}
	order.Status = models.StatusExpired
	return nil
}

type fakeCheckoutSessions struct {
	params []stripe.CheckoutSessionParams
	err    error
}

func (f *fakeCheckoutSessions) CreateCheckoutSession(_ context.Context, params stripe.CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = append(f.params, params)
	return &stripeapi.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/c/pay/cs_test_123"}, nil
}

type recordingMailer struct {
	sent []*email.Email
}

func (m *recordingMailer) SendEmail(_ context.Context, message *email.Email) error {
	m.sent = append(m.sent, message)
	return nil
}

func floatPtr(v float64) *float64 {
	return &v
}
