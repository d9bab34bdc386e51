package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// OrderType distinguishes the three kinds of orders students can place.
type OrderType string

const (
	OrderTypeProduct OrderType = "product"
	OrderTypeCustom  OrderType = "custom"
	OrderTypeParcel  OrderType = "parcel"
)

// OrderStatus is the fulfillment lifecycle stage.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusAssigned  OrderStatus = "Assigned"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the four enumerated statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further fulfillment transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo enforces the fulfillment state machine: forward only
// through Pending → Assigned → Delivered, with Cancelled reachable from any
// non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !target.Valid() || s.Terminal() {
		return false
	}
	switch target {
	case StatusCancelled:
		return true
	case StatusAssigned:
		return s == StatusPending
	case StatusDelivered:
		return s == StatusAssigned
	}
	return false
}

// PaymentStatus is the settlement lifecycle stage. It moves independently
// of fulfillment except that cancelling a Paid order refunds it.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Valid reports whether p is one of the four enumerated payment statuses.
func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentMethod is how the student chose to pay.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "Cash"
	MethodUPI    PaymentMethod = "UPI"
	MethodCard   PaymentMethod = "Card"
	MethodWallet PaymentMethod = "Wallet"
)

// Valid reports whether m is a known payment method. Empty is allowed,
// the field is optional.
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", MethodCash, MethodUPI, MethodCard, MethodWallet:
		return true
	}
	return false
}

// Courier is the delivery company a parcel pickup arrives through.
type Courier string

const (
	CourierAmazon   Courier = "Amazon"
	CourierFlipkart Courier = "Flipkart"
	CourierMeesho   Courier = "Meesho"
	CourierMyntra   Courier = "Myntra"
	CourierOther    Courier = "Other"
)

// Valid reports whether c is a known courier.
func (c Courier) Valid() bool {
	switch c {
	case CourierAmazon, CourierFlipkart, CourierMeesho, CourierMyntra, CourierOther:
		return true
	}
	return false
}

// DefaultPickupLocation is where parcels wait when the student does not
// say otherwise.
const DefaultPickupLocation = "Main Gate"

// Order is the central entity: one product, custom or parcel order owned
// by exactly one user.
type Order struct {
	gorm.Model
	UserID    uint        `gorm:"not null;index" json:"userId"`
	User      *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderType OrderType   `gorm:"size:20;not null" json:"orderType"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`

	// Custom order fields.
	CustomDescription string  `gorm:"type:text" json:"customDescription,omitempty"`
	EstimatedPrice    float64 `json:"estimatedPrice,omitempty"`
	CustomItems       string  `gorm:"type:text" json:"-"` // JSON-encoded string list

	// Parcel pickup fields.
	CourierName    Courier `gorm:"size:50" json:"courierName,omitempty"`
	TrackingNumber string  `gorm:"size:255" json:"trackingNumber,omitempty"`
	SenderName     string  `gorm:"size:255" json:"senderName,omitempty"`
	PickupLocation string  `gorm:"size:255" json:"pickupLocation,omitempty"`
	DeliveryRoom   string  `gorm:"size:50" json:"deliveryRoom,omitempty"`

	TotalPrice          float64       `gorm:"not null" json:"totalPrice"`
	Status              OrderStatus   `gorm:"size:20;not null;default:Pending" json:"status"`
	PaymentStatus       PaymentStatus `gorm:"size:20;not null;default:Pending" json:"paymentStatus"`
	PaymentMethod       PaymentMethod `gorm:"size:20" json:"paymentMethod,omitempty"`
	PaymentRef          string        `gorm:"size:255;index" json:"paymentRef,omitempty"`
	SpecialInstructions string        `gorm:"type:text" json:"specialInstructions,omitempty"`
}

// OrderItem is one line of a product order. Name, price and image are
// snapshotted from the catalog at order time so totals stay stable when the
// catalog changes.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"-"`
	ProductID uint    `gorm:"not null" json:"productId"`
	Name      string  `gorm:"size:255;not null" json:"name"`
	Price     float64 `gorm:"not null" json:"price"`
	Image     string  `gorm:"size:1024" json:"image"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
}

// SetCustomItems stores the free-text item list as JSON.
func (o *Order) SetCustomItems(items []string) error {
	if len(items) == 0 {
		o.CustomItems = ""
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.CustomItems = string(raw)
	return nil
}

// CustomItemList decodes the stored item list, nil when empty.
func (o *Order) CustomItemList() []string {
	if o.CustomItems == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(o.CustomItems), &items); err != nil {
		return nil
	}
	return items
}
