package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/ecom-labs/storefront/internal/domain"
	"github.com/go-pdf/fpdf"
)

// ErrOrderNotSettled means the order is still PENDING; invoices exist only
// for settled orders.
var ErrOrderNotSettled = errors.New("order has not reached a terminal status")

const (
	leftMargin   = 100.0
	itemIndent   = 120.0
	topMargin    = 42.0
	lineStep     = 20.0
	bottomMargin = 60.0
)

type Renderer struct {
	currencySymbol string
}

func NewRenderer() *Renderer {
	return &Renderer{currencySymbol: "$"}
}

// Render produces the invoice PDF for a settled order. Output is
// byte-identical across calls for the same order: the document's creation
// date is pinned instead of read from the clock.
func (r *Renderer) Render(order *domain.Order, customerName string) ([]byte, error) {
	if !order.Status.IsTerminal() {
		return nil, ErrOrderNotSettled
	}

	doc := r.build(order, customerName)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write invoice pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (r *Renderer) build(order *domain.Order, customerName string) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()

	_, pageHeight := pdf.GetPageSize()
	limit := pageHeight - bottomMargin

	y := topMargin
	writeLine := func(x float64, text string) {
		if y > limit {
			pdf.AddPage()
			y = topMargin
		}
		pdf.Text(x, y, text)
		y += lineStep
	}

	writeLine(leftMargin, fmt.Sprintf("Invoice for Order #%s", order.ID))
	writeLine(leftMargin, fmt.Sprintf("Customer: %s", customerName))
	writeLine(leftMargin, formatTotal(r.currencySymbol, order))
	writeLine(leftMargin, "Products:")
	for _, item := range order.Items {
		writeLine(itemIndent, formatLine(item))
	}

	return pdf
}

func formatLine(item domain.OrderItem) string {
	return fmt.Sprintf("%s x %d = %s", item.ProductName, item.Quantity, item.LineTotal())
}

func formatTotal(symbol string, order *domain.Order) string {
	return fmt.Sprintf("Total Amount: %s%s", symbol, order.TotalAmount)
}
