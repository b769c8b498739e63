package handler

import (
	"net/http"

	"frozenshop/internal/dto"
	"frozenshop/internal/middleware"
	"frozenshop/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Adjust godoc
// @Summary      Apply a signed stock delta
// @Description  Writes one stock movement; rejects changes that would drive stock below zero.
// @Tags         admin-inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                     true  "Product ID"
// @Param        body  body  dto.AdjustStockRequest  true  "Adjustment"
// @Success      200  {object}  dto.StockAdjustmentResponse
// @Failure      409  {object}  apierror.Response
// @Router       /api/admin/inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), middleware.GetAuth(c), id, req)
	if err != nil {
		respondError(c, err, "Could not adjust stock")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *InventoryHandler) Set(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SetStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetStockAbsolute(c.Request.Context(), middleware.GetAuth(c), id, *req.Quantity, req.Notes)
	if err != nil {
		respondError(c, err, "Could not set stock")
		return
	}
	respond(c, http.StatusOK, resp)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Could not load stock movements")
		return
	}
	respondList(c, resp.Data, resp.PageMeta)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err, "Could not load low stock products")
		return
	}
	respond(c, http.StatusOK, resp)
}

// VerifyLedger replays a product's movements against its live stock.
func (h *InventoryHandler) VerifyLedger(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.VerifyLedger(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Could not verify stock ledger")
		return
	}
	respond(c, http.StatusOK, resp)
}
