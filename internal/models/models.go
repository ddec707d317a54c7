package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type AdminUser struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"        json:"email"`
	PasswordHash string    `gorm:"not null"                    json:"-"`
	CreatedAt    time.Time `                                   json:"createdAt"`
	UpdatedAt    time.Time `                                   json:"updatedAt"`
}

func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type Customer struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"not null"                    json:"name"`
	Phone     string    `gorm:"index;not null"              json:"phone"`
	Email     string    `                                   json:"email"`
	Address   string    `                                   json:"address"`
	CreatedAt time.Time `                                   json:"createdAt"`
	UpdatedAt time.Time `                                   json:"updatedAt"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Category struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"not null"                    json:"name"`
	NameAr      string    `                                   json:"nameAr"`
	Description string    `                                   json:"description"`
	CreatedAt   time.Time `                                   json:"createdAt"`
	UpdatedAt   time.Time `                                   json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string          `gorm:"not null"                    json:"name"`
	Description string          `                                   json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"price"`
	Images      []string        `gorm:"serializer:json"             json:"images"`
	CategoryID  string          `gorm:"index"                       json:"categoryId"`
	Stock       int             `gorm:"not null;default:0"          json:"stock"`
	CreatedAt   time.Time       `                                   json:"createdAt"`
	UpdatedAt   time.Time       `                                   json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return nil
}

type AnalyticsEvent struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Type      string         `gorm:"index;not null"              json:"type"`
	Page      string         `                                   json:"page"`
	ProductID string         `gorm:"index"                       json:"productId,omitempty"`
	SessionID string         `gorm:"index"                       json:"sessionId,omitempty"`
	Metadata  map[string]any `gorm:"serializer:json"             json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"index"                       json:"createdAt"`
}

func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type LogEntry struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Level     string         `gorm:"index;not null"              json:"level"`
	Category  string         `gorm:"index"                       json:"category"`
	Message   string         `gorm:"not null"                    json:"message"`
	Source    string         `                                   json:"source"`
	Details   map[string]any `gorm:"serializer:json"             json:"details,omitempty"`
	CreatedAt time.Time      `gorm:"index"                       json:"timestamp"`
}

func (l *LogEntry) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&AdminUser{},
		&Customer{},
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
		&AnalyticsEvent{},
		&LogEntry{},
	}
}
