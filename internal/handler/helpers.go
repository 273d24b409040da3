package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JamLaMin/rsw-webapp/internal/apierror"
	"github.com/JamLaMin/rsw-webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds the JSON body and runs go-playground/validator tags.
// On failure it writes the 400 response and returns false; the caller must
// return without writing anything else.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID parses a positive integer path parameter. Non-numeric and
// non-positive ids write a 400 and return ok=false.
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps service sentinel errors onto the contractual status
// codes; anything unrecognized is pushed into the error middleware as a 500.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, apierror.New("Bad request"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid credentials"))
	case errors.Is(err, service.ErrRegisterNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Unknown register"))
	case errors.Is(err, service.ErrSaleNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Unknown sale"))
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Unknown product"))
	case errors.Is(err, service.ErrSaleClosed):
		c.JSON(http.StatusConflict, apierror.New("Sale is closed"))
	case errors.Is(err, service.ErrSaleAlreadyPaid):
		c.JSON(http.StatusConflict, apierror.New("Sale already paid"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}
