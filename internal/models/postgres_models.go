package models

import (
	"time"

	"github.com/google/uuid"
)

// CartSnapshot model - PostgreSQL (key/value slot for the sql storage driver)
type CartSnapshot struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Data      []byte    `gorm:"type:bytea;not null" json:"-"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Order model - PostgreSQL, one per vendor per checkout
type Order struct {
	ID            uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SessionID     string      `gorm:"index;not null" json:"session_id"`
	VendorID      string      `gorm:"index;not null" json:"vendor_id"`
	VendorName    string      `json:"vendor_name"`
	OrderStatus   string      `gorm:"default:pending" json:"order_status"` // pending, confirmed, preparing, dispatched, delivered, cancelled
	ItemCount     int         `json:"item_count"`
	TotalAmount   float64     `json:"total_amount"`
	DeliveryNote  string      `json:"delivery_note"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem model - PostgreSQL, a cart line frozen at checkout
type OrderItem struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID             uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	LineID              string    `json:"line_id"`
	ProductID           string    `gorm:"not null" json:"product_id"`
	Title               string    `json:"title"`
	UnitPrice           float64   `json:"unit_price"`
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
}
