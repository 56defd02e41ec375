package entities

import (
	"strings"
	"time"

	"eshopClient/models"
)

const (
	StatusNew        = "NEW"
	StatusProcessing = "PROCESSING"
	StatusShipped    = "SHIPPED"
	StatusDelivered  = "DELIVERED"
	StatusCancelled  = "CANCELLED"
	StatusCompleted  = "COMPLETED"
)

// OrderStatuses are the transition targets offered in the admin panel, in
// display order. CONFIRMED exists only as a display label for legacy
// orders and is never set from here.
var OrderStatuses = []string{
	StatusNew,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusCompleted,
}

const (
	ShippingStandard = "STANDARD"
	ShippingExpress  = "EXPRESS"
	ShippingPickup   = "PICKUP"
)

type Category struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	Id          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    *Category `json:"category,omitempty"`
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type Cart struct {
	Id        int64      `json:"id,omitempty"`
	CartItems []CartItem `json:"cartItems"`
}

type Role struct {
	Id   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type User struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Roles    []Role `json:"roles,omitempty"`
}

// DeliveryInfo is the checkout draft. Transient: it lives in the cart view
// and is never persisted, only posted to /orders.
type DeliveryInfo struct {
	ShippingAddress string `json:"shippingAddress"`
	RecipientName   string `json:"recipientName"`
	RecipientPhone  string `json:"recipientPhone"`
	DeliveryNotes   string `json:"deliveryNotes"`
	ShippingMethod  string `json:"shippingMethod"`
}

type OrderItem struct {
	Id       int64    `json:"id"`
	Product  *Product `json:"product,omitempty"`
	Quantity int      `json:"quantity"`
	// Price is the unit price at the time the order was placed, not the
	// current catalog price.
	Price float64 `json:"price"`
}

type Order struct {
	Id              int64       `json:"id"`
	OrderDate       APITime     `json:"orderDate"`
	DeliveryDate    *APITime    `json:"deliveryDate,omitempty"`
	Status          string      `json:"status"`
	TotalPrice      float64     `json:"totalPrice"`
	OrderItems      []OrderItem `json:"orderItems,omitempty"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	RecipientName   string      `json:"recipientName,omitempty"`
	RecipientPhone  string      `json:"recipientPhone,omitempty"`
	ShippingMethod  string      `json:"shippingMethod,omitempty"`
	ShippingCost    float64     `json:"shippingCost,omitempty"`
	DeliveryNotes   string      `json:"deliveryNotes,omitempty"`
	User            *User       `json:"user,omitempty"`
}

type DashboardStats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalOrders   int64 `json:"totalOrders"`
	TotalProducts int64 `json:"totalProducts"`
}

// APITime accepts both RFC3339 and the zone-less timestamps the backend
// emits for order dates.
type APITime struct {
	time.Time
}

func (t *APITime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
	}
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t APITime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}

type ProductsResponse struct {
	models.Envelope
	Products []Product `json:"products"`
}

type ProductResponse struct {
	models.Envelope
	Product *Product `json:"product,omitempty"`
}

type CategoriesResponse struct {
	models.Envelope
	Categories []Category `json:"categories"`
}

type CartResponse struct {
	models.Envelope
	Cart *Cart `json:"cart,omitempty"`
}

type OrdersResponse struct {
	models.Envelope
	Orders []Order `json:"orders"`
}

type OrderResponse struct {
	models.Envelope
	Order *Order `json:"order,omitempty"`
}

type UsersResponse struct {
	models.Envelope
	Users []User `json:"users"`
}

type UserResponse struct {
	models.Envelope
	User *User `json:"user,omitempty"`
}

type StatsResponse struct {
	models.Envelope
	Stats *DashboardStats `json:"stats,omitempty"`
}
