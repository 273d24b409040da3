package service

import "errors"

// Sentinel errors returned by the service layer. Handlers translate them to
// HTTP status codes; everything else becomes a 500.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadRequest         = errors.New("bad request")
	ErrRegisterNotFound   = errors.New("register not found")
	ErrSaleNotFound       = errors.New("sale not found")
	ErrProductNotFound    = errors.New("product not found")
	// ErrSaleClosed: item mutation attempted on a sale that is not OPEN.
	ErrSaleClosed = errors.New("sale is closed")
	// ErrSaleAlreadyPaid: pay-cash on a sale that already left OPEN.
	ErrSaleAlreadyPaid = errors.New("sale already paid")
)
