package domain

import "time"

// Invoice is emitted once an order's payment is verified. PDFURL is filled
// in by a follow-up step and may be empty while rendering is pending.
type Invoice struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	AmountCents   int64     `json:"amountCents"`
	PaymentID     string    `json:"paymentId"`
	PDFURL        string    `json:"pdfUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
