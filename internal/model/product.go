package model

import "time"

// Product is catalog reference data. PriceCents is the current sell price in
// integer minor currency units; sales snapshot it into their line items at
// add time, so later price edits never touch open or historical sales.
type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"index;not null"`
	PriceCents int64  `gorm:"not null"`
	// Barcode is optional; unique when present (keyboard-wedge scanner input).
	Barcode   *string `gorm:"uniqueIndex"`
	Active    bool    `gorm:"not null;default:true"`
	SortOrder int     `gorm:"not null;default:0"`
	ImageURL  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
