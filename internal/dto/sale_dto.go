package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenSaleRequest struct {
	RegisterID uint `json:"registerId" validate:"required,gt=0"`
}

// AddItemRequest carries exactly one of ProductID/Barcode; Qty defaults to 1
// when omitted. The bounds check lives in the service so that a zero value
// from an omitted field is distinguishable from an explicit bad quantity.
type AddItemRequest struct {
	ProductID *uint   `json:"productId" validate:"omitempty,gt=0"`
	Barcode   *string `json:"barcode"   validate:"omitempty,min=1"`
	Qty       *int    `json:"qty"       validate:"omitempty,min=1,max=99"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ID             uint            `json:"id"`
	Qty            int             `json:"qty"`
	UnitPriceCents int64           `json:"unitPriceCents"`
	SubtotalCents  int64           `json:"subtotalCents"`
	Product        ProductResponse `json:"product"`
}

type RegisterResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type SaleResponse struct {
	ID         uint               `json:"id"`
	RegisterID uint               `json:"registerId"`
	UserID     uint               `json:"userId"`
	Status     string             `json:"status"`
	TotalCents int64              `json:"totalCents"`
	Items      []SaleItemResponse `json:"items"`
	CreatedAt  string             `json:"createdAt"`
	PaidAt     *string            `json:"paidAt"`
	Register   *RegisterResponse  `json:"register,omitempty"`
	User       *UserResponse      `json:"user,omitempty"`
}

// SaleEnvelope wraps the sale for the wire: every sale endpoint responds
// with {"sale": {...}}.
type SaleEnvelope struct {
	Sale SaleResponse `json:"sale"`
}
