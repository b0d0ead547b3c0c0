package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

// Order is a placed checkout. Money fields are integer cents and the line
// items snapshot product name and unit price at placement time.
type Order struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderNumber     string              `gorm:"size:24;uniqueIndex;not null" json:"order_number"`
	Status          enums.OrderStatus   `gorm:"size:20;not null;default:pending;index" json:"status"`
	PaymentMethod   enums.PaymentMethod `gorm:"size:30;not null" json:"payment_method"`
	ShippingAddress types.Address       `gorm:"type:jsonb;serializer:json" json:"shipping_address"`
	SubtotalCents   int64               `gorm:"not null" json:"subtotal_cents"`
	ShippingCents   int64               `gorm:"not null" json:"shipping_cents"`
	TaxCents        int64               `gorm:"not null" json:"tax_cents"`
	TotalCents      int64               `gorm:"not null" json:"total_cents"`
	CreatedAt       time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
