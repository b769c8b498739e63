package handler

import (
	"net/http"

	"frozenshop/internal/dto"
	"frozenshop/internal/middleware"
	"frozenshop/internal/service"

	"github.com/gin-gonic/gin"
)

// ── Categories ───────────────────────────────────────────────────────────────

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) List(c *gin.Context) {
	var filter dto.AdminFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not load categories")
		return
	}
	respondList(c, resp.Data, resp.PageMeta)
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetAuth(c), req)
	if err != nil {
		respondError(c, err, "Could not create category")
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not update category")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *CategoriesHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetActive(c.Request.Context(), middleware.GetAuth(c), id, *req.IsActive); err != nil {
		respondError(c, err, "Could not update category")
		return
	}
	respondMessage(c, "Category updated")
}

func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetAuth(c), id); err != nil {
		respondError(c, err, "Could not delete category")
		return
	}
	respondMessage(c, "Category deleted")
}

// ── Products ─────────────────────────────────────────────────────────────────

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.AdminProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not load products")
		return
	}
	respondList(c, resp.Data, resp.PageMeta)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not load product")
		return
	}
	respond(c, http.StatusOK, resp)
}

// Create godoc
// @Summary      Create a product
// @Description  A non-zero stock_quantity is recorded as an initial stock movement.
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ProductRequest  true  "Product"
// @Success      201  {object}  dto.AdminProductResponse
// @Failure      422  {object}  apierror.Response
// @Router       /api/admin/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetAuth(c), req)
	if err != nil {
		respondError(c, err, "Could not create product")
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not update product")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ProductsHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetActive(c.Request.Context(), middleware.GetAuth(c), id, *req.IsActive); err != nil {
		respondError(c, err, "Could not update product")
		return
	}
	respondMessage(c, "Product updated")
}

func (h *ProductsHandler) SetFeatured(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.FeaturedRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetFeatured(c.Request.Context(), middleware.GetAuth(c), id, *req.IsFeatured); err != nil {
		respondError(c, err, "Could not update product")
		return
	}
	respondMessage(c, "Product updated")
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetAuth(c), id); err != nil {
		respondError(c, err, "Could not delete product")
		return
	}
	respondMessage(c, "Product deleted")
}

func (h *ProductsHandler) AddImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductImageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddImage(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not add image")
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *ProductsHandler) SetPrimaryImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "image_id")
	if !ok {
		return
	}
	resp, err := h.svc.SetPrimaryImage(c.Request.Context(), middleware.GetAuth(c), id, imageID)
	if err != nil {
		respondError(c, err, "Could not update image")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ProductsHandler) DeleteImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	imageID, ok := parseID(c, "image_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), middleware.GetAuth(c), id, imageID); err != nil {
		respondError(c, err, "Could not delete image")
		return
	}
	respondMessage(c, "Image deleted")
}

// ── Shipping areas ───────────────────────────────────────────────────────────

type ShippingAreasHandler struct{ svc service.ShippingAreaService }

func NewShippingAreasHandler(svc service.ShippingAreaService) *ShippingAreasHandler {
	return &ShippingAreasHandler{svc: svc}
}

func (h *ShippingAreasHandler) List(c *gin.Context) {
	var filter dto.AdminFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not load shipping areas")
		return
	}
	respondList(c, resp.Data, resp.PageMeta)
}

func (h *ShippingAreasHandler) Create(c *gin.Context) {
	var req dto.ShippingAreaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.GetAuth(c), req)
	if err != nil {
		respondError(c, err, "Could not create shipping area")
		return
	}
	respond(c, http.StatusCreated, resp)
}

func (h *ShippingAreasHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ShippingAreaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not update shipping area")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *ShippingAreasHandler) SetActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActiveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SetActive(c.Request.Context(), middleware.GetAuth(c), id, *req.IsActive); err != nil {
		respondError(c, err, "Could not update shipping area")
		return
	}
	respondMessage(c, "Shipping area updated")
}

func (h *ShippingAreasHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.GetAuth(c), id); err != nil {
		respondError(c, err, "Could not delete shipping area")
		return
	}
	respondMessage(c, "Shipping area deleted")
}
