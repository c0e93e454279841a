package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. The unique index on name covers inactive rows
// too: a soft-deleted product keeps its name reserved, and creating it again
// revives the existing row instead of inserting a new one.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description string          `json:"description" gorm:"size:1024"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Active      bool            `json:"active" gorm:"default:true;index"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by" gorm:"size:20"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UpdatedBy   string          `json:"updated_by" gorm:"size:20"`

	// Relations
	Category Category `json:"-" gorm:"foreignKey:CategoryID"`
}
