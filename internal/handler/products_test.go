package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/JamLaMin/rsw-webapp/internal/dto"
	"github.com/JamLaMin/rsw-webapp/internal/handler"
	"github.com/JamLaMin/rsw-webapp/internal/model"
	"github.com/JamLaMin/rsw-webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalogService struct {
	products []dto.ProductResponse
	err      error
}

func (s *stubCatalogService) ListProducts(_ context.Context) ([]dto.ProductResponse, error) {
	return s.products, s.err
}

func (s *stubCatalogService) FindActive(_ context.Context, _ *uint, _ *string) (*model.Product, error) {
	return nil, service.ErrProductNotFound
}

var _ service.CatalogService = (*stubCatalogService)(nil)

func newProductsRouter(svc service.CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", handler.NewProductsHandler(svc).List)
	return r
}

func TestListProducts_Envelope(t *testing.T) {
	svc := &stubCatalogService{products: []dto.ProductResponse{
		{ID: 1, Name: "Cola", PriceCents: 150, SortOrder: 10},
		{ID: 2, Name: "Water", PriceCents: 100, SortOrder: 30},
	}}
	r := newProductsRouter(svc)

	w := doJSON(r, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProductListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Cola", resp.Products[0].Name)
	assert.Equal(t, int64(150), resp.Products[0].PriceCents)
}

func TestListProducts_Error(t *testing.T) {
	r := newProductsRouter(&stubCatalogService{err: errors.New("db down")})

	w := doJSON(r, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
