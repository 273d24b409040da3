package model

import "time"

// Role values for User.Role.
const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
)

// User stores system users with role-based access.
// Users are never deleted — deactivate via Active=false instead.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
