package model

import "time"

// Register is a physical checkout point. Static reference data, seeded —
// never created through the API.
type Register struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
