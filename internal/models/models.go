package models

import (
	"time"
)

type MenuItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Category    string    `json:"category"`
	FoodPartner string    `json:"food_partner"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// CartLine is one row of a cart. Subtotal is always computed server-side
// from the live menu price; client-supplied subtotals are ignored.
type CartLine struct {
	ID         int64   `json:"id"`
	MenuItemID int64   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
	ImageURL   string  `json:"image_url"`
	Category   string  `json:"category"`
}

// OrderItem is a frozen snapshot of a cart line at order creation.
// Name and price are copied, never re-derived from the live menu.
type OrderItem struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal"`
	FoodPartner string  `json:"food_partner,omitempty"`
}

type Order struct {
	ID            int64       `json:"id"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total"` // item subtotals + tip, fixed at creation
	Tip           float64     `json:"tip"`
	PaymentMethod string      `json:"payment_method"`
	PickupDate    string      `json:"pickup_date"`
	PickupTime    string      `json:"pickup_time"`
	CustomerName  string      `json:"customer_name"`
	CancelReason  string      `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items"`
}

// Partner is a storefront entry derived from the menu, not a table of
// its own.
type Partner struct {
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	ItemCount int    `json:"item_count"`
}

type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`    // bcrypt hash
	Role        string    `json:"role"` // "member", "admin", "staff"
	FoodPartner string    `json:"food_partner"`
	FullName    string    `json:"full_name"`
	SRCode      string    `json:"sr_code"`
	CreatedAt   time.Time `json:"created_at"`
}
