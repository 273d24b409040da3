package dto

// ProductResponse mirrors the catalog grid item. PriceCents is integer minor
// currency units — never floating point.
type ProductResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	PriceCents int64   `json:"priceCents"`
	Barcode    *string `json:"barcode"`
	SortOrder  int     `json:"sortOrder"`
	ImageURL   *string `json:"imageUrl"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}
