package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "ONLINE"
)

// Payment status values for an order.
const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
	PaymentStatusFailed  = "Failed"
)

// Fulfilment status values for a single line item.
const (
	ItemStatusPlaced         = "PLACED"
	ItemStatusPackaged       = "PACKAGED"
	ItemStatusOutForShipment = "OUT_FOR_SHIPMENT"
	ItemStatusShipped        = "SHIPPED"
	ItemStatusOutForDelivery = "OUT_FOR_DELIVERY"
	ItemStatusDelivered      = "DELIVERED"
	ItemStatusCancelled      = "CANCELLED"
	ItemStatusReturned       = "RETURNED"
)

// Address is a shipping destination. It is embedded into an order at placement
// time and also stored in the user's address book.
type Address struct {
	Street   string `json:"street" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Landmark string `json:"landmark,omitempty"`
	ZipCode  string `json:"zip_code" validate:"required"`
	Country  string `json:"country" validate:"required"`
}

// OrderItem represents a single line within an order. Price is the unit price
// captured at order time and is never recomputed from the catalog.
type OrderItem struct {
	ID         uint     `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID    string   `json:"-" gorm:"index;type:varchar(36)"`
	ProductID  string   `json:"product_id" gorm:"type:varchar(36)"`
	Product    *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	MerchantID string   `json:"merchant_id" gorm:"type:varchar(36)"`
	Merchant   *User    `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Quantity   int      `json:"quantity" gorm:"default:1" validate:"gte=1"`
	Price      float64  `json:"price"`
	Status     string   `json:"status" gorm:"type:varchar(20);default:PLACED"`
	TrackingID string   `json:"tracking_id,omitempty"`
}

// Order represents one purchase transaction. TotalAmount is derived from the
// line items at creation and is not independently settable.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	BuyerID         string      `json:"buyer_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount     float64     `json:"total_amount"`
	PaymentMethod   string      `json:"payment_method" gorm:"type:varchar(10)"`
	PaymentStatus   string      `json:"payment_status" gorm:"type:varchar(10);default:Pending"`
	ShippingAddress Address     `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`
	RazorpayOrderID string      `json:"razorpay_order_id,omitempty"`
	PlacedAt        time.Time   `json:"placed_at" gorm:"index"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
