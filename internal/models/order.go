package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusProcessing = "processing"

	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"

	DefaultDeliveryArea = "sitra"
)

// DeliveryAreas is the fixed zone list an order's delivery area must belong to.
var DeliveryAreas = []string{
	"sitra",
	"manama",
	"muharraq",
	"riffa",
	"isa-town",
	"hamad-town",
	"aali",
	"budaiya",
	"juffair",
	"seef",
	"zallaq",
	"jidhafs",
}

func IsDeliveryArea(area string) bool {
	for _, a := range DeliveryAreas {
		if a == area {
			return true
		}
	}
	return false
}

type Order struct {
	ID           string          `gorm:"primaryKey;type:varchar(36)"           json:"id"`
	CustomerID   string          `gorm:"index;not null"                        json:"customerId"`
	Items        []OrderItem     `gorm:"constraint:OnDelete:CASCADE"           json:"items"`
	Total        decimal.Decimal `gorm:"type:numeric(12,3);not null"           json:"total"`
	Status       string          `gorm:"index;not null"                        json:"status"`
	DeliveryType string          `gorm:"not null"                              json:"deliveryType"`
	DeliveryArea string          `gorm:"not null"                              json:"deliveryArea"`
	Notes        string          `                                             json:"notes"`
	CreatedAt    time.Time       `gorm:"index"                                 json:"createdAt"`
	UpdatedAt    time.Time       `                                             json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem is owned by its order. Price is captured at order time and does
// not follow later product price changes.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"                  json:"-"`
	OrderID   string          `gorm:"index;not null"              json:"-"`
	Position  int             `gorm:"not null"                    json:"-"`
	ProductID string          `gorm:"not null"                    json:"productId"`
	Quantity  int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price"`
}

// ItemsTotal is the sum of price × quantity over items.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
