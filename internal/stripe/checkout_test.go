package stripe

import (
	"testing"

	"github.com/google/uuid"
)

func TestBuildSessionParams(t *testing.T) {
	t.Parallel()

	orderID := uuid.MustParse("2f3b5c1a-8d4e-4f6a-9b7c-1d2e3f4a5b6c")
	params, err := BuildSessionParams(CheckoutSessionParams{
		OrderID:  orderID,
		Currency: "ars",
		Lines: []CheckoutLine{
			{Name: "Smart TV", UnitAmountCents: 89999900, Quantity: 1, ImageURL: "https://cdn.example/tv.jpg"},
			{Name: "Auriculares", UnitAmountCents: 8999900, Quantity: 2},
		},
		ShippingCents: 500000,
		SuccessURL:    "https://shop.example/checkout/success",
		CancelURL:     "https://shop.example/cart",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(params.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(params.LineItems))
	}
	second := params.LineItems[1]
	if *second.Quantity != 2 || *second.PriceData.UnitAmount != 8999900 || *second.PriceData.Currency != "ars" {
		t.Fatalf("unexpected second line: %+v", second.PriceData)
	}
	if len(params.LineItems[0].PriceData.ProductData.Images) != 1 {
		t.Fatalf("expected image on first line")
	}
	if params.LineItems[1].PriceData.ProductData.Images != nil {
		t.Fatalf("expected no image on second line")
	}
	shipping := params.ShippingOptions[0].ShippingRateData
	if *shipping.FixedAmount.Amount != 500000 || *shipping.DisplayName != "Envio" {
		t.Fatalf("unexpected shipping option: %+v", shipping)
	}
	if params.Metadata["order_id"] != orderID.String() {
		t.Fatalf("order id metadata missing: %+v", params.Metadata)
	}
	if params.CustomerEmail != nil {
		t.Fatalf("customer email should be omitted when empty")
	}
}

func TestBuildSessionParams_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := BuildSessionParams(CheckoutSessionParams{OrderID: uuid.New()}); err == nil {
		t.Fatal("expected error for empty lines")
	}
	if _, err := BuildSessionParams(CheckoutSessionParams{Lines: []CheckoutLine{{Name: "TV", Quantity: 1}}}); err == nil {
		t.Fatal("expected error for missing order id")
	}
}
