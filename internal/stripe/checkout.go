package stripe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v84"
)

type CheckoutLine struct {
	Name            string
	ImageURL        string
	UnitAmountCents int64
	Quantity        int64
}

type CheckoutSessionParams struct {
	OrderID       uuid.UUID
	Currency      string
	Lines         []CheckoutLine
	ShippingCents int64
	ShippingLabel string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

type Client struct {
	client *stripeapi.Client
}

func NewClient(secretKey string) *Client {
	return &Client{client: stripeapi.NewClient(secretKey)}
}

// CreateCheckoutSession opens a hosted checkout page for an order and
// returns the session.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*stripeapi.CheckoutSession, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is required")
	}
	sessionParams, err := BuildSessionParams(params)
	if err != nil {
		return nil, err
	}

	session, err := c.client.V1CheckoutSessions.Create(ctx, sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session, nil
}

// BuildSessionParams maps an order onto Stripe checkout session parameters:
// one line item per cart line and shipping as a fixed-amount option.
func BuildSessionParams(params CheckoutSessionParams) (*stripeapi.CheckoutSessionCreateParams, error) {
	if len(params.Lines) == 0 {
		return nil, fmt.Errorf("checkout session needs at least one line")
	}
	if params.OrderID == uuid.Nil {
		return nil, fmt.Errorf("checkout session needs an order id")
	}

	lineItems := make([]*stripeapi.CheckoutSessionCreateLineItemParams, 0, len(params.Lines))
	for _, line := range params.Lines {
		productData := &stripeapi.CheckoutSessionCreateLineItemPriceDataProductDataParams{
			Name: stripeapi.String(line.Name),
		}
		if line.ImageURL != "" {
			productData.Images = stripeapi.StringSlice([]string{line.ImageURL})
		}
		lineItems = append(lineItems, &stripeapi.CheckoutSessionCreateLineItemParams{
			PriceData: &stripeapi.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:    stripeapi.String(params.Currency),
				ProductData: productData,
				UnitAmount:  stripeapi.Int64(line.UnitAmountCents),
			},
			Quantity: stripeapi.Int64(line.Quantity),
		})
	}

	shippingLabel := params.ShippingLabel
	if shippingLabel == "" {
		shippingLabel = "Envio"
	}

	sessionParams := &stripeapi.CheckoutSessionCreateParams{
		Mode:       stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		SuccessURL: stripeapi.String(params.SuccessURL),
		CancelURL:  stripeapi.String(params.CancelURL),
		LineItems:  lineItems,
		ShippingOptions: []*stripeapi.CheckoutSessionCreateShippingOptionParams{
			{
				ShippingRateData: &stripeapi.CheckoutSessionCreateShippingOptionShippingRateDataParams{
					DisplayName: stripeapi.String(shippingLabel),
					Type:        stripeapi.String(string(stripeapi.ShippingRateTypeFixedAmount)),
					FixedAmount: &stripeapi.CheckoutSessionCreateShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripeapi.Int64(params.ShippingCents),
						Currency: stripeapi.String(params.Currency),
					},
				},
			},
		},
		ClientReferenceID: stripeapi.String(params.OrderID.String()),
		Metadata: map[string]string{
			orderIDMetadataKey: params.OrderID.String(),
		},
	}
	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripeapi.String(params.CustomerEmail)
	}
	return sessionParams, nil
}
