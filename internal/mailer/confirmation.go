package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aromaten/aromaten-backend/internal/orders"
	"github.com/aromaten/aromaten-backend/pkg/logger"
)

// The storefront is Bulgarian, so customer-facing copy stays Bulgarian.
var confirmationTemplate = template.Must(template.New("order_confirmation").Parse(`
<div style="font-family:Arial,sans-serif;max-width:560px;margin:0 auto;color:#333">
  <h2 style="color:#6b21a8">Поръчка #{{.OrderRef}} потвърдена</h2>
  <p>Здравейте, <strong>{{.CustomerName}}</strong>,</p>
  <p>Вашата поръчка беше получена успешно. Ще се свържем с вас за доставката.</p>

  <table style="width:100%;border-collapse:collapse;margin:20px 0">
    <thead>
      <tr style="background:#f5f5f5">
        <th style="padding:8px 12px;text-align:left">Продукт</th>
        <th style="padding:8px 12px;text-align:center">Бр.</th>
        <th style="padding:8px 12px;text-align:right">Сума</th>
      </tr>
    </thead>
    <tbody>
      {{- range .Items}}
      <tr>
        <td style="padding:6px 12px;border-bottom:1px solid #eee">{{.Name}}</td>
        <td style="padding:6px 12px;border-bottom:1px solid #eee;text-align:center">{{.Quantity}}</td>
        <td style="padding:6px 12px;border-bottom:1px solid #eee;text-align:right">{{.LineTotal}} лв.</td>
      </tr>
      {{- end}}
    </tbody>
    <tfoot>
      <tr>
        <td colspan="2" style="padding:10px 12px;font-weight:bold;text-align:right">Общо:</td>
        <td style="padding:10px 12px;font-weight:bold;text-align:right">{{.Total}} лв.</td>
      </tr>
    </tfoot>
  </table>

  <p><strong>Адрес за доставка:</strong> {{.Address}}</p>
  <hr style="border:none;border-top:1px solid #eee;margin:24px 0"/>
  <p style="color:#888;font-size:13px">Aromaten &mdash; Ароматно Магазинче</p>
</div>`))

type confirmationItem struct {
	Name      string
	Quantity  int
	LineTotal string
}

type confirmationData struct {
	OrderRef     string
	CustomerName string
	Address      string
	Items        []confirmationItem
	Total        string
}

type emailSender interface {
	Send(ctx context.Context, email Email) error
}

// OrderMailer renders and delivers order confirmation emails.
type OrderMailer struct {
	sender emailSender
	logg   *logger.Logger
}

// NewOrderMailer wires the mailer over any email sender.
func NewOrderMailer(sender emailSender, logg *logger.Logger) (*OrderMailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	return &OrderMailer{sender: sender, logg: logg}, nil
}

// SendOrderConfirmation delivers the post-checkout email for the order.
func (m *OrderMailer) SendOrderConfirmation(ctx context.Context, order *orders.OrderDTO) error {
	ref := orderRef(order)
	data := confirmationData{
		OrderRef:     ref,
		CustomerName: order.CustomerName,
		Address:      order.Address,
		Total:        order.TotalAmount.StringFixed(2),
	}
	for _, item := range order.Items {
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		data.Items = append(data.Items, confirmationItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}

	var html strings.Builder
	if err := confirmationTemplate.Execute(&html, data); err != nil {
		return fmt.Errorf("rendering confirmation email: %w", err)
	}

	return m.sender.Send(ctx, Email{
		To:      order.CustomerEmail,
		Subject: "Потвърждение на поръчка #" + ref,
		HTML:    html.String(),
	})
}

func orderRef(order *orders.OrderDTO) string {
	id := order.ID.String()
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
