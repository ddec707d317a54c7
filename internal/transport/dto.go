package transport

import "github.com/shopspring/decimal"

// OrderItemInput fields are pointers so that a missing field can be told
// apart from a zero value.
type OrderItemInput struct {
	ProductID *string          `json:"productId"`
	Quantity  *int             `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	CustomerID   string           `json:"customerId"`
	Items        []OrderItemInput `json:"items"`
	Status       string           `json:"status"`
	DeliveryType string           `json:"deliveryType"`
	DeliveryArea string           `json:"deliveryArea"`
	Notes        string           `json:"notes"`
	Total        *decimal.Decimal `json:"total"`
}

type UpdateOrderRequest struct {
	CustomerID   *string           `json:"customerId"`
	Items        *[]OrderItemInput `json:"items"`
	Status       *string           `json:"status"`
	DeliveryType *string           `json:"deliveryType"`
	DeliveryArea *string           `json:"deliveryArea"`
	Notes        *string           `json:"notes"`
	Total        *decimal.Decimal  `json:"total"`
}

type OrderFilter struct {
	CustomerID string
	Status     string
	Offset     int
	Limit      int
}

type CustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type ProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Images      *[]string        `json:"images"`
	CategoryID  *string          `json:"categoryId"`
	Stock       *int             `json:"stock"`
}

type CategoryRequest struct {
	Name        *string `json:"name"`
	NameAr      *string `json:"nameAr"`
	Description *string `json:"description"`
}

type TrackEventRequest struct {
	Type      string         `json:"type"`
	Page      string         `json:"page"`
	ProductID string         `json:"productId"`
	SessionID string         `json:"sessionId"`
	Metadata  map[string]any `json:"metadata"`
}

type LogRequest struct {
	Level    string         `json:"level"`
	Category string         `json:"category"`
	Message  string         `json:"message"`
	Source   string         `json:"source"`
	Details  map[string]any `json:"details"`
}

type LogFilter struct {
	Level    string
	Category string
	Search   string
	Limit    int
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateEmailRequest struct {
	Email string `json:"email"`
}
