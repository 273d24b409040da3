package handler

import (
	"net/http"

	"github.com/JamLaMin/rsw-webapp/internal/dto"
	"github.com/JamLaMin/rsw-webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.CatalogService }

func NewProductsHandler(svc service.CatalogService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary      List active products
// @Description  Returns the catalog grid, ordered by sort order then name.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ProductListResponse
// @Failure      401 {object} apierror.APIError
// @Router       /products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.svc.ListProducts(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductListResponse{Products: products})
}
