package domain

import "time"

// Cart holds a user's pending line items. At most one cart exists per user;
// it is created lazily on the first add.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Lines     []CartLine `json:"lines"`
	CreatedAt time.Time  `json:"createdAt"`
}

// CartLine is one product entry in a cart. Name, price and image are
// snapshots taken when the line was first added and are never refreshed.
type CartLine struct {
	ID            string    `json:"id"`
	CartID        string    `json:"cartId"`
	ProductID     string    `json:"productId"`
	Quantity      int       `json:"quantity"`
	NameSnapshot  string    `json:"name"`
	ImageSnapshot string    `json:"image,omitempty"`
	PriceCents    int64     `json:"priceCents"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TotalCents sums quantity times the snapshot unit price across all lines.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += int64(line.Quantity) * line.PriceCents
	}
	return total
}
