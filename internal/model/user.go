package model

import "time"

// Roles assignable to users. Registration always grants RoleUser; admins are
// provisioned out of band (see cmd/seed).
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a credential-store record.
type User struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Username  string     `json:"username" gorm:"uniqueIndex;size:20;not null"`
	Password  string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role      string     `json:"role" gorm:"size:20;not null;default:'user'"`
	Active    bool       `json:"active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
