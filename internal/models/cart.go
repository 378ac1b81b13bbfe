package models

// CartLineItem is one distinct product selection in a session cart. Display
// fields are copied from the product when the line is created.
type CartLineItem struct {
	ID                  string  `json:"id"`
	ProductID           string  `json:"product_id"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	UnitPrice           float64 `json:"unit_price"`
	ImageRef            string  `json:"image_ref"`
	VendorID            string  `json:"vendor_id"`
	VendorName          string  `json:"vendor_name"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
}

// LineTotal is unit price times quantity.
func (i CartLineItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// CartSummary is the read model handed to the HTTP layer and to checkout.
type CartSummary struct {
	Items []CartLineItem `json:"items"`
	Count int            `json:"count"`
	Total float64        `json:"total"`
}

// CartProduct carries the catalog fields copied into a new cart line.
type CartProduct struct {
	ProductID   string
	Title       string
	Description string
	UnitPrice   float64
	ImageRef    string
	VendorID    string
	VendorName  string
}

// CartProduct returns the fields of p a cart line needs.
func (p *Product) CartProduct() CartProduct {
	return CartProduct{
		ProductID:   p.ID.Hex(),
		Title:       p.Title,
		Description: p.Description,
		UnitPrice:   p.Price,
		ImageRef:    p.ImageRef,
		VendorID:    p.VendorID,
		VendorName:  p.VendorName,
	}
}
