package domain

import "time"

// Product is a vendor-owned catalog entry. Carts and orders never reference
// it live; they copy name/price/image snapshots at add time.
type Product struct {
	ID                  string                 `json:"id"`
	VendorID            string                 `json:"vendorId"`
	Name                string                 `json:"name"`
	Slug                string                 `json:"slug"`
	Description         string                 `json:"description,omitempty"`
	Category            string                 `json:"category,omitempty"`
	PriceCents          int64                  `json:"priceCents"`
	CompareAtPriceCents int64                  `json:"compareAtPriceCents,omitempty"`
	Stock               int                    `json:"stock"`
	SKU                 string                 `json:"sku,omitempty"`
	Tags                []string               `json:"tags,omitempty"`
	Images              []string               `json:"images,omitempty"`
	Attributes          map[string]interface{} `json:"attributes,omitempty"`
	IsActive            bool                   `json:"isActive"`
	CreatedAt           time.Time              `json:"createdAt"`
}

// FirstImage returns the leading image URL, or "" when the product has none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
