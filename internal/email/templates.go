package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"github.com/shopspring/decimal"

	"github.com/electrostore/electrostore/internal/models"
)

// OrderConfirmation is the data rendered into the confirmation email.
type OrderConfirmation struct {
	OrderID   string
	StoreName string
	StoreURL  string
	OrderDate string
	Items     []ConfirmationLine
	Subtotal  string
	Shipping  string
	Total     string
}

type ConfirmationLine struct {
	Name      string
	Quantity  int
	LineTotal string
}

// NewOrderConfirmation formats an order's amounts for display.
func NewOrderConfirmation(order *models.Order, storeName, storeURL string) *OrderConfirmation {
	currency := strings.ToUpper(order.Currency)
	confirmation := &OrderConfirmation{
		OrderID:   order.ID.String(),
		StoreName: storeName,
		StoreURL:  storeURL,
		OrderDate: order.CreatedAt.Format("02/01/2006"),
		Subtotal:  formatCents(order.SubtotalCents, currency),
		Shipping:  formatCents(order.ShippingCents, currency),
		Total:     formatCents(order.TotalCents, currency),
	}
	for _, item := range order.Items {
		lineTotal := decimal.NewFromFloat(item.UnitPrice).Round(2).Mul(decimal.NewFromInt(int64(item.Quantity)))
		confirmation.Items = append(confirmation.Items, ConfirmationLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: formatAmount(lineTotal, currency),
		})
	}
	return confirmation
}

func formatCents(cents int64, currency string) string {
	return formatAmount(decimal.New(cents, -2), currency)
}

func formatAmount(amount decimal.Decimal, currency string) string {
	return currency + " " + amount.StringFixed(2)
}

var (
	confirmationText = template.Must(template.New("order_confirmation_text").Parse(orderConfirmationText))
	confirmationHTML = htmltemplate.Must(htmltemplate.New("order_confirmation_html").Parse(orderConfirmationHTML))
)

// RenderOrderConfirmation builds the confirmation email for a recipient.
func RenderOrderConfirmation(to string, data *OrderConfirmation) (*Email, error) {
	if data == nil {
		return nil, fmt.Errorf("order confirmation data is required")
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := confirmationText.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render text template: %w", err)
	}
	if err := confirmationHTML.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &Email{
		To:      to,
		Subject: fmt.Sprintf("Pedido confirmado - %s", data.StoreName),
		Text:    textBuf.String(),
		HTML:    htmlBuf.String(),
	}, nil
}

// SendOrderConfirmation renders and sends the confirmation email.
func SendOrderConfirmation(ctx context.Context, p Provider, to string, data *OrderConfirmation) error {
	if p == nil {
		return nil
	}
	message, err := RenderOrderConfirmation(to, data)
	if err != nil {
		return err
	}
	return p.SendEmail(ctx, message)
}

const orderConfirmationText = `Gracias por tu compra en {{.StoreName}}!

Pedido: {{.OrderID}}
Fecha: {{.OrderDate}}

{{range .Items}}- {{.Name}} x{{.Quantity}}: {{.LineTotal}}
{{end}}
Subtotal: {{.Subtotal}}
Envio: {{.Shipping}}
Total: {{.Total}}

Te avisaremos cuando tu pedido sea despachado.
{{.StoreURL}}
`

const orderConfirmationHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Pedido confirmado</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #0f172a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
    .items { width: 100%; border-collapse: collapse; margin: 15px 0; }
    .items th { text-align: left; padding: 10px; background: #f3f4f6; border-bottom: 2px solid #e5e7eb; }
    .items td { padding: 10px; border-bottom: 1px solid #e5e7eb; }
    .totals { text-align: right; }
    .footer { text-align: center; padding: 20px; color: #6b7280; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header">
    <h1>Pedido confirmado</h1>
  </div>
  <div class="content">
    <p><strong>Pedido:</strong> {{.OrderID}}<br><strong>Fecha:</strong> {{.OrderDate}}</p>
    <table class="items">
      <thead><tr><th>Producto</th><th>Cant.</th><th>Total</th></tr></thead>
      <tbody>
        {{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.LineTotal}}</td></tr>
        {{end}}
      </tbody>
    </table>
    <div class="totals">
      <p>Subtotal: {{.Subtotal}}</p>
      <p>Envio: {{.Shipping}}</p>
      <p><strong>Total: {{.Total}}</strong></p>
    </div>
  </div>
  <div class="footer">
    <p>Gracias por comprar en <a href="{{.StoreURL}}">{{.StoreName}}</a></p>
  </div>
</body>
</html>
`
