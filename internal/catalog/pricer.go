package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("invalid quantity")

// Offer is the storefront view of a product's discount.
type Offer struct {
	HasOffer           bool     `json:"has_offer"`
	OriginalPrice      *float64 `json:"original_price"`
	CurrentPrice       float64  `json:"current_price"`
	DiscountPercentage int      `json:"discount_percentage"`
	Savings            float64  `json:"savings"`
}

// CalculateOffer derives the offer for a price and an optional compare-at
// price. A compare-at price only implies an offer when it is strictly above
// the current price.
func CalculateOffer(price float64, compareAt *float64) Offer {
	offer := Offer{CurrentPrice: price}
	if compareAt == nil || !(*compareAt > price) {
		return offer
	}

	original := *compareAt
	offer.HasOffer = true
	offer.OriginalPrice = &original
	offer.Savings = original - price
	offer.DiscountPercentage = discountPercentage(price, original)
	return offer
}

func discountPercentage(price, original float64) int {
	if original == 0 {
		return 0
	}
	pct := math.Round((original - price) / original * 100)
	switch {
	case math.IsNaN(pct) || pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}

// CartLine is one product in a cart as seen by the pricer.
type CartLine struct {
	ProductID uuid.UUID
	Name      string
	UnitPrice float64
	Quantity  int
	Available int
}

type QuotedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartQuote struct {
	Lines    []QuotedLine    `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

type Pricer struct {
	settings *StoreSettings
}

func NewPricer(settings *StoreSettings) *Pricer {
	if settings == nil {
		settings = DefaultSettings()
	}
	return &Pricer{settings: settings}
}

func (p *Pricer) Settings() *StoreSettings {
	return p.settings
}

// Quote prices a cart. Quantities must be between one and the configured
// per-line maximum and may not exceed available stock.
func (p *Pricer) Quote(lines []CartLine) (*CartQuote, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidQuantity)
	}

	quote := &CartQuote{
		Lines:    make([]QuotedLine, 0, len(lines)),
		Subtotal: decimal.Zero,
		Currency: p.settings.Store.Currency,
	}
	for _, line := range lines {
		if err := p.checkQuantity(line); err != nil {
			return nil, err
		}
		unit := decimal.NewFromFloat(line.UnitPrice).Round(2)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		quote.Lines = append(quote.Lines, QuotedLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: unit,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
		quote.Subtotal = quote.Subtotal.Add(lineTotal)
	}

	quote.Shipping = p.ShippingFor(quote.Subtotal)
	quote.Total = quote.Subtotal.Add(quote.Shipping)
	return quote, nil
}

// ShippingFor returns the flat rate unless the subtotal reaches the free
// shipping threshold.
func (p *Pricer) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	shipping := p.settings.Shipping
	if shipping.FreeOver > 0 && subtotal.GreaterThanOrEqual(decimal.NewFromFloat(shipping.FreeOver)) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(shipping.FlatRate).Round(2)
}

func (p *Pricer) checkQuantity(line CartLine) error {
	maxQuantity := p.settings.Checkout.MaxQuantity
	if line.Quantity < 1 || line.Quantity > maxQuantity {
		return fmt.Errorf("%w: %q quantity must be between 1 and %d", ErrInvalidQuantity, line.Name, maxQuantity)
	}
	if line.Quantity > line.Available {
		return fmt.Errorf("%w: only %d of %q in stock", ErrInvalidQuantity, line.Available, line.Name)
	}
	return nil
}

// ToMinorUnits converts an amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}
