package model

import "time"

// Category groups products. The API only exposes reads plus an admin-only
// create; the audit fields are kept for schema compatibility with future
// mutation endpoints.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Description string    `json:"description" gorm:"size:1024"`
	Active      bool      `json:"active" gorm:"default:true;index"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by" gorm:"size:20"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by" gorm:"size:20"`
}
