package model

import "time"

// Sale status values. OPEN → PAID is the only transition; PAID is terminal.
const (
	SaleOpen = "OPEN"
	SalePaid = "PAID"
)

// Sale is the running tab of one register. At most one OPEN sale exists per
// register at any time, enforced by a partial unique index on
// sales(register_id) WHERE status = 'OPEN' (see infra.applySchemaPatches).
//
// A sale is keyed by register rather than by session or device so that a
// register can be handed off between cashiers mid-transaction.
type Sale struct {
	ID         uint   `gorm:"primaryKey"`
	RegisterID uint   `gorm:"index;not null"`
	UserID     uint   `gorm:"not null"`
	Status     string `gorm:"type:varchar(10);not null;default:'OPEN'"`
	CreatedAt  time.Time
	PaidAt     *time.Time

	Items    []SaleItem `gorm:"foreignKey:SaleID"`
	Register *Register  `gorm:"foreignKey:RegisterID"`
	User     *User      `gorm:"foreignKey:UserID"`
}

// TotalCents recomputes the running total from the line items. The total is
// never stored; integer cents arithmetic keeps it exact.
func (s *Sale) TotalCents() int64 {
	var total int64
	for _, item := range s.Items {
		total += int64(item.Qty) * item.UnitPriceCents
	}
	return total
}

// SaleItem accumulates the quantity of one product within a sale. The
// (sale_id, product_id) pair is unique — re-adding a product increments Qty
// instead of creating a second row. UnitPriceCents is the price snapshot
// taken when the product was first added.
type SaleItem struct {
	ID             uint  `gorm:"primaryKey"`
	SaleID         uint  `gorm:"uniqueIndex:idx_sale_items_sale_product;not null"`
	ProductID      uint  `gorm:"uniqueIndex:idx_sale_items_sale_product;not null"`
	Qty            int   `gorm:"not null"`
	UnitPriceCents int64 `gorm:"not null"`
	CreatedAt      time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// SubtotalCents is the line total in integer cents.
func (i *SaleItem) SubtotalCents() int64 {
	return int64(i.Qty) * i.UnitPriceCents
}
