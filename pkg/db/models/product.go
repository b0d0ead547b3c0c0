package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog listing. PriceCents is the unit price in integer
// cents, Stock is the units available for sale.
type Product struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StoreID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"store_id"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name        string     `gorm:"size:200;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	PriceCents  int64      `gorm:"not null;index" json:"price_cents"`
	Stock       int        `gorm:"not null;default:0" json:"stock"`
	ImagePath   string     `gorm:"size:255" json:"image_path,omitempty"`
	Featured    bool       `gorm:"not null;default:false;index" json:"featured"`
	Active      bool       `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Store    *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// InStock reports whether the requested quantity is currently available.
func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}
