package handler

import (
	"net/http"

	"github.com/JamLaMin/rsw-webapp/internal/dto"
	"github.com/JamLaMin/rsw-webapp/internal/middleware"
	"github.com/JamLaMin/rsw-webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Open godoc
// @Summary      Open a sale on a register, or return the one already open
// @Description  Each register holds at most one open sale. When one exists it is returned instead of creating another.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenSaleRequest true "Register"
// @Success      200 {object} dto.SaleEnvelope
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /sales/open [post]
func (h *SalesHandler) Open(c *gin.Context) {
	var req dto.OpenSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}

	claims, ok := middleware.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, nil)
		return
	}

	sale, err := h.svc.OpenOrGet(c.Request.Context(), claims.UserID, req.RegisterID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaleEnvelope{Sale: *sale})
}

// Get godoc
// @Summary      Fetch a sale with its items
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Sale ID"
// @Success      200 {object} dto.SaleEnvelope
// @Failure      404 {object} apierror.APIError
// @Router       /sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaleEnvelope{Sale: *sale})
}

// AddItem godoc
// @Summary      Add a product to an open sale
// @Description  Adds by product id or barcode. Repeated adds of the same product accumulate into one line.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Sale ID"
// @Param        body body dto.AddItemRequest true "Product selector and quantity"
// @Success      200 {object} dto.SaleEnvelope
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /sales/{id}/items [post]
func (h *SalesHandler) AddItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}

	sale, err := h.svc.AddItem(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaleEnvelope{Sale: *sale})
}

// PayCash godoc
// @Summary      Settle an open sale with cash
// @Description  Marks the sale PAID and records the payment time. Paying twice returns a conflict.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Sale ID"
// @Success      200 {object} dto.SaleEnvelope
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /sales/{id}/pay-cash [post]
func (h *SalesHandler) PayCash(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sale, err := h.svc.PayCash(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SaleEnvelope{Sale: *sale})
}
