package handler

import (
	"net/http"

	"frozenshop/internal/dto"
	"frozenshop/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the public storefront: products, categories,
// shipping areas, cart pricing and public settings.
type CatalogHandler struct {
	catalog  service.CatalogService
	settings service.SettingsService
}

func NewCatalogHandler(catalog service.CatalogService, settings service.SettingsService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, settings: settings}
}

// ListProducts godoc
// @Summary      List active products
// @Tags         catalog
// @Produce      json
// @Param        category  query  string  false  "Category slug"
// @Param        q         query  string  false  "Search by name or description"
// @Param        sort      query  string  false  "newest | price_asc | price_desc | name"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not load products")
		return
	}
	respondList(c, resp.Data, resp.PageMeta)
}

// GetProduct godoc
// @Summary      Product detail by slug
// @Tags         catalog
// @Produce      json
// @Param        slug  path  string  true  "Product slug"
// @Success      200  {object}  dto.ProductDetailResponse
// @Failure      404  {object}  apierror.Response
// @Router       /api/products/{slug} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	resp, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err, "Could not load product")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not load categories")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *CatalogHandler) ListShippingAreas(c *gin.Context) {
	resp, err := h.catalog.ListShippingAreas(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not load shipping areas")
		return
	}
	respond(c, http.StatusOK, resp)
}

// CartSummary godoc
// @Summary      Price a client-side cart against current stock
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartSummaryRequest  true  "Cart lines"
// @Success      200  {object}  dto.CartSummaryResponse
// @Router       /api/cart/summary [post]
func (h *CatalogHandler) CartSummary(c *gin.Context) {
	var req dto.CartSummaryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.catalog.CartSummary(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Could not price cart")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *CatalogHandler) PublicSettings(c *gin.Context) {
	resp, err := h.settings.Public(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not load settings")
		return
	}
	respond(c, http.StatusOK, resp)
}
