package invoice

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

type pdfRenderer struct{}

// NewPDFRenderer returns a Renderer producing a single-page PDF invoice.
func NewPDFRenderer() Renderer {
	return &pdfRenderer{}
}

func (pdfRenderer) Render(in RenderInput) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.CellFormat(0, 12, "INVOICE", "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	line := func(s string) {
		doc.CellFormat(0, 6, s, "", 1, "L", false, 0, "")
	}
	line(fmt.Sprintf("Invoice Number: %s", in.Invoice.InvoiceNumber))
	line(fmt.Sprintf("Date: %s", in.Invoice.CreatedAt.Format("2006-01-02")))
	line(fmt.Sprintf("Order ID: %s", in.Order.ID))
	line(fmt.Sprintf("Payment ID: %s", in.Invoice.PaymentID))
	doc.Ln(4)

	line(fmt.Sprintf("Customer: %s", in.CustomerName))
	if in.CustomerEmail != "" {
		line(fmt.Sprintf("Email: %s", in.CustomerEmail))
	}
	if in.CustomerPhone != "" {
		line(fmt.Sprintf("Phone: %s", in.CustomerPhone))
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 11)
	line("Items:")
	doc.SetFont("Helvetica", "", 11)
	for i, item := range in.Order.Lines {
		line(fmt.Sprintf("%d. %s - %s x %d", i+1, item.NameSnapshot, formatCents(item.PriceCents), item.Quantity))
	}
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, fmt.Sprintf("Total Amount: %s", formatCents(in.Invoice.AmountCents)), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
